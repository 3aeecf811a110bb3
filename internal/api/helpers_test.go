package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/logging"
	"github.com/pageza/recetario/backend/internal/middleware"
	"github.com/pageza/recetario/backend/internal/models"
	"github.com/pageza/recetario/backend/internal/observability"
	"github.com/pageza/recetario/backend/internal/service"
	"github.com/pageza/recetario/backend/internal/testhelpers"
)

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	db      *gorm.DB
	auth    *service.AuthService
	metrics *observability.Metrics
}

func newTestServer(t *testing.T, images *service.ImageService) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logging.Discard()
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret", time.Hour, log)
	metrics := observability.NewMetrics()

	router := gin.New()
	router.Use(middleware.ErrorHandler(log))
	RegisterRoutes(router, Dependencies{
		DB:      db,
		Log:     log,
		Auth:    auth,
		Images:  images,
		Metrics: metrics,
	})

	return &testServer{t: t, router: router, db: db, auth: auth, metrics: metrics}
}

// user creates a user with roles and returns it with a valid token.
func (s *testServer) user(email string, roles ...string) (*models.User, string) {
	s.t.Helper()
	u := testhelpers.CreateUser(s.t, s.db, email, roles...)
	token, err := s.auth.GenerateToken(u.ID)
	require.NoError(s.t, err)
	return u, token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}
