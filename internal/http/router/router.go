package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/notshop-backend/internal/config"
	"github.com/ignatzorin/notshop-backend/internal/http/handlers"
	"github.com/ignatzorin/notshop-backend/internal/http/middleware"
	"github.com/ignatzorin/notshop-backend/internal/models"
)

// Handlers набор хэндлеров, из которых собирается роутер.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Gate    *handlers.GateHandler
	Profile *handlers.ProfileHandler
	Media   *handlers.ProfileMediaHandler
	Seller  *handlers.SellerHandler
	Order   *handlers.OrderHandler
	Listing *handlers.ListingHandler
	Admin   *handlers.AdminHandler
	WS      *handlers.WSHandler
	Health  *handlers.HealthHandler
}

// Options параметры роутера, не относящиеся к хэндлерам.
type Options struct {
	Tokens middleware.AccessTokenParser
	// MediaRoot каталог локального хранилища. Пустой, если файлы лежат в MinIO.
	MediaRoot string
}

// SetupRouter регистрирует маршруты API.
func SetupRouter(cfg *config.Config, h Handlers, opts Options) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	// Глобально, чтобы preflight на несуществующие маршруты тоже получал заголовки.
	r.Use(unlessPrefix(gatePrefix, middleware.CORSMiddleware(cfg.AllowedOrigins)))

	r.GET("/health", h.Health.Health)
	if opts.MediaRoot != "" {
		r.StaticFS("/media", http.Dir(opts.MediaRoot))
	}

	// Проверка блокировки открыта для любого источника и любого метода.
	gate := r.Group(gatePrefix)
	gate.Use(middleware.PublicCORS())
	gate.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	gate.Any("/check-ip-ban", h.Gate.CheckIPBan)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	api.GET("/ws", h.WS.Handle)

	// Публичные страницы.
	api.GET("/announcements", h.Listing.Announcements)
	api.GET("/listings/featured", h.Listing.Featured)
	api.GET("/listings/:id", middleware.UUIDValidator("id"), h.Listing.Get)
	api.GET("/sellers/:id", middleware.UUIDValidator("id"), h.Seller.GetPage)
	api.GET("/sellers/:id/followers", middleware.UUIDValidator("id"), h.Seller.ListFollowers)
	api.GET("/users/:id/reviews", middleware.UUIDValidator("id"), h.Seller.ListUserReviews)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(opts.Tokens))
	{
		profile := protected.Group("/profile")
		profile.GET("", h.Profile.GetMe)
		profile.PUT("", h.Profile.UpdateMe)
		profile.PUT("/username", h.Profile.ChangeUsername)
		profile.POST("/avatar", h.Media.UploadAvatar)
		profile.POST("/cover", h.Media.UploadCover)

		protected.POST("/sellers/:id/follow", middleware.UUIDValidator("id"), h.Seller.Follow)
		protected.DELETE("/sellers/:id/follow", middleware.UUIDValidator("id"), h.Seller.Unfollow)

		listings := protected.Group("/listings")
		listings.POST("", h.Listing.Create)
		listings.GET("/mine", h.Listing.ListMine)
		listings.DELETE("/:id", middleware.UUIDValidator("id"), h.Listing.Delete)

		favorites := protected.Group("/favorites")
		favorites.GET("", h.Listing.Favorites)
		favorites.POST("/:id", middleware.UUIDValidator("id"), h.Listing.AddFavorite)
		favorites.DELETE("/:id", middleware.UUIDValidator("id"), h.Listing.RemoveFavorite)

		orders := protected.Group("/orders")
		orders.POST("", h.Order.Create)
		orders.GET("/buying", h.Order.ListBuying)
		orders.GET("/selling", h.Order.ListSelling)
		orders.GET("/:id", middleware.UUIDValidator("id"), h.Order.Get)
		orders.PUT("/:id/status", middleware.UUIDValidator("id"), h.Order.UpdateStatus)
		orders.POST("/:id/reports", middleware.UUIDValidator("id"), h.Order.OpenReport)
		orders.POST("/:id/reviews", middleware.UUIDValidator("id"), h.Order.CreateReview)

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", h.Admin.ListUsers)
			admin.PUT("/users/:id/role", middleware.UUIDValidator("id"), h.Admin.SetRole)
			admin.POST("/users/:id/balance", middleware.UUIDValidator("id"), h.Admin.AdjustBalance)
			admin.GET("/users/:id/ledger", middleware.UUIDValidator("id"), h.Admin.LedgerHistory)
			admin.POST("/users/:id/verify", middleware.UUIDValidator("id"), h.Admin.ToggleVerified)

			admin.GET("/ip-bans", h.Admin.ListBans)
			admin.POST("/ip-bans", h.Admin.BanIP)
			admin.DELETE("/ip-bans/:id", middleware.UUIDValidator("id"), h.Admin.UnbanIP)

			admin.POST("/announcements", h.Admin.CreateAnnouncement)
			admin.DELETE("/announcements/:id", middleware.UUIDValidator("id"), h.Admin.DeleteAnnouncement)
			admin.GET("/reports", h.Admin.ListReports)
		}
	}

	return r
}

const gatePrefix = "/functions"

// unlessPrefix пропускает middleware для путей с заданным префиксом.
func unlessPrefix(prefix string, mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, prefix+"/") {
			c.Next()
			return
		}
		mw(c)
	}
}
