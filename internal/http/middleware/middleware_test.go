package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubParser struct {
	userID uuid.UUID
	role   string
	err    error
}

func (p stubParser) ParseAccess(string) (uuid.UUID, string, error) {
	return p.userID, p.role, p.err
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	r := gin.New()
	r.GET("/me", AuthMiddleware(stubParser{userID: userID, role: models.RoleUser}), func(c *gin.Context) {
		sess, ok := session.FromContext(c.Request.Context())
		require.True(t, ok)
		assert.Equal(t, userID, sess.UserID)
		assert.Equal(t, userID, c.MustGet(ContextUserIDKey))
		c.Status(http.StatusOK)
	})

	w := perform(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer token"})
	assert.Equal(t, http.StatusOK, w.Code)

	bad := gin.New()
	bad.GET("/me", AuthMiddleware(stubParser{err: errors.New("expired")}), func(c *gin.Context) { c.Status(http.StatusOK) })
	w = perform(bad, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	build := func(role string) *gin.Engine {
		r := gin.New()
		r.GET("/admin", AuthMiddleware(stubParser{userID: uuid.New(), role: role}), RequireRole(models.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}
	auth := map[string]string{"Authorization": "Bearer token"}

	assert.Equal(t, http.StatusOK, perform(build(models.RoleAdmin), http.MethodGet, "/admin", auth).Code)
	assert.Equal(t, http.StatusForbidden, perform(build(models.RoleUser), http.MethodGet, "/admin", auth).Code)

	anon := gin.New()
	anon.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, perform(anon, http.MethodGet, "/admin", nil).Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://notshop.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/x", map[string]string{"Origin": "https://notshop.example"})
	assert.Equal(t, "https://notshop.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/x", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodOptions, "/x", map[string]string{"Origin": "https://notshop.example"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPublicCORS(t *testing.T) {
	r := gin.New()
	r.Any("/gate", PublicCORS(), func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	w := perform(r, http.MethodOptions, "/gate", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodPost, "/gate", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperror.ErrInsufficientBalance) })
	r.GET("/raw", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })

	w := perform(r, http.MethodGet, "/app", nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), apperror.ErrInsufficientBalance.Message)

	w = perform(r, http.MethodGet, "/raw", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimitMiddleware(2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/x", nil).Code)
	w := perform(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodGet, "/x", nil).Code)
}

func TestUUIDValidator(t *testing.T) {
	r := gin.New()
	r.GET("/orders/:id", UUIDValidator("id"), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodGet, "/orders/42", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/orders/"+uuid.NewString(), nil).Code)
}
