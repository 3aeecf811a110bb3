package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recetario/backend/internal/logging"
	"github.com/pageza/recetario/backend/internal/mocks"
	"github.com/pageza/recetario/backend/internal/models"
	"github.com/pageza/recetario/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Ana"}
	validator := new(mocks.MockTokenValidator)
	validator.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: user.ID}, nil)
	validator.On("ValidateToken", "bad").Return(nil, errors.New("invalid"))
	validator.On("ValidateToken", "orphan").Return(&types.TokenClaims{UserID: uuid.Nil}, nil)
	validator.On("GetUserByID", user.ID).Return(user, nil)
	validator.On("GetUserByID", uuid.Nil).Return(nil, errors.New("not found"))

	router := gin.New()
	router.GET("/me", AuthMiddleware(validator), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": CurrentUser(c).Name, "claims": CurrentClaims(c) != nil})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"deleted user", "Bearer orphan", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"name":"Ana","claims":true}`, w.Body.String())
			}
		})
	}
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler(logging.Discard()))
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func newTestLimiter(t *testing.T, limit int) (*RateLimiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Minute, Limit: limit, KeyPrefix: "test"})
	return rl, mr
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 2)

	router := gin.New()
	router.POST("/login", rl.Middleware(ByClientIP), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if i == 0 {
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// another client has its own budget
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterWindowExpires(t *testing.T) {
	rl, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	allowed, _, _, err := rl.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, remaining, _, err := rl.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)

	mr.FastForward(2 * time.Minute)
	rl.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	allowed, remaining, _, err = rl.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, allowed, "a new window starts a new budget")
	assert.Zero(t, remaining)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	rl, mr := newTestLimiter(t, 1)
	mr.Close()

	router := gin.New()
	router.POST("/recetas", rl.Middleware(func(*gin.Context) string { return "u1" }), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recetas", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestNilRateLimiterPassesThrough(t *testing.T) {
	var rl *RateLimiter
	router := gin.New()
	router.GET("/", rl.Middleware(ByClientIP), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
