package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/notshop-backend/internal/cache"
	"github.com/ignatzorin/notshop-backend/internal/config"
	"github.com/ignatzorin/notshop-backend/internal/db"
	httpHandlers "github.com/ignatzorin/notshop-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/notshop-backend/internal/http/router"
	"github.com/ignatzorin/notshop-backend/internal/logger"
	"github.com/ignatzorin/notshop-backend/internal/repository"
	"github.com/ignatzorin/notshop-backend/internal/service"
	"github.com/ignatzorin/notshop-backend/internal/storage"
	"github.com/ignatzorin/notshop-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
	}
	logger.Init(logLevel, cfg.Env)
	log := logger.Component("main")

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	reputationCache, redisClient := setupReputationCache(ctx, cfg)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	objectStore, mediaRoot, err := setupObjectStore(ctx, cfg)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	profileRepo := repository.NewProfileRepository(dbConn)
	ledgerRepo := repository.NewLedgerRepository(dbConn)
	ipBanRepo := repository.NewIPBanRepository(dbConn)
	listingRepo := repository.NewListingRepository(dbConn)
	orderRepo := repository.NewOrderRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	favoriteRepo := repository.NewFavoriteRepository(dbConn)
	followerRepo := repository.NewFollowerRepository(dbConn)
	announcementRepo := repository.NewAnnouncementRepository(dbConn)

	// Вебсокеты. Хаб получает события изменения профиля.
	hub := ws.NewHub()

	// Сервисы.
	gate := service.NewAccessGate(ipBanRepo, cfg.FailOpen())
	authService := service.NewAuthService(userRepo, tokenManager, gate)
	ledgerService := service.NewLedgerService(profileRepo, ledgerRepo, hub)
	usernameService := service.NewUsernameService(profileRepo, ledgerService, hub, cfg.UsernameChangeFee)
	profileService := service.NewProfileService(profileRepo, objectStore, hub)
	reputationService := service.NewReputationService(reviewRepo, reputationCache)
	orderService := service.NewOrderService(orderRepo, listingRepo, reportRepo, cfg.CommissionRate)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, reputationService)
	listingService := service.NewListingService(listingRepo)
	communityService := service.NewCommunityService(favoriteRepo, followerRepo, announcementRepo)
	sellerPageService := service.NewSellerPageService(profileRepo, reputationService, orderRepo, listingRepo, followerRepo)
	adminService := service.NewAdminService(profileRepo, ledgerService, ipBanRepo, announcementRepo, orderService, hub)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Auth:    httpHandlers.NewAuthHandler(authService),
		Gate:    httpHandlers.NewGateHandler(gate),
		Profile: httpHandlers.NewProfileHandler(profileService, usernameService),
		Media:   httpHandlers.NewProfileMediaHandler(profileService, cfg.MaxUploadSizeMB),
		Seller:  httpHandlers.NewSellerHandler(sellerPageService, reviewService, communityService),
		Order:   httpHandlers.NewOrderHandler(orderService, reviewService),
		Listing: httpHandlers.NewListingHandler(listingService, communityService),
		Admin:   httpHandlers.NewAdminHandler(adminService),
		WS:      httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Health:  httpHandlers.NewHealthHandler(dbConn, redisClient),
	}, httpRouter.Options{
		Tokens:    tokenManager,
		MediaRoot: mediaRoot,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.WithField("port", cfg.HTTPPort).Info("main: HTTP сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Завершаем сервер при получении сигнала.
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
	log.Info("main: сервер остановлен")
}

// setupReputationCache выбирает Redis, если он настроен, иначе кэш в памяти процесса.
// Недоступный Redis при старте не фатален.
func setupReputationCache(ctx context.Context, cfg *config.Config) (service.ReputationCache, *redis.Client) {
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err == nil {
			return cache.NewRedis(client, cfg.ReputationCacheTTL), client
		}
		logger.Component("main").WithError(err).Warn("main: redis недоступен, кэш репутации в памяти")
	}
	return cache.NewMemory(ctx, cfg.ReputationCacheTTL), nil
}

// setupObjectStore создаёт хранилище изображений. Для локального драйвера
// возвращает каталог, который раздаётся по /media.
func setupObjectStore(ctx context.Context, cfg *config.Config) (service.ObjectStore, string, error) {
	if cfg.StorageDriver == config.StorageDriverMinio {
		store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			Bucket:        cfg.MinioBucket,
			UseSSL:        cfg.MinioUseSSL,
			PublicBaseURL: cfg.PublicMediaBaseURL,
		})
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	}

	store, err := storage.NewLocalStore(cfg.MediaStoragePath, cfg.PublicMediaBaseURL, cfg.MaxUploadSizeMB)
	if err != nil {
		return nil, "", err
	}
	return store, store.Root(), nil
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Component("main").WithError(err).Error("main: ошибка закрытия базы")
	}
}
