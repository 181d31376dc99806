package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit-backend/pkg/jwt"
)

func newTestRouter(manager *jwt.Manager, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	mw := AuthMiddleware(manager)
	if optional {
		mw = OptionalAuthMiddleware(manager)
	}

	router.GET("/protected", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c).String()})
	})

	return router
}

func issueToken(t *testing.T, manager *jwt.Manager, userID uuid.UUID) string {
	t.Helper()

	token, err := manager.GenerateAccessToken(userID.String(), "alice")
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	router := newTestRouter(manager, false)
	userID := uuid.New()

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + issueToken(t, manager, userID), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "NotBearer xyz", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	router := newTestRouter(manager, false)

	// Refresh token không thay thế được access token trên protected routes
	refresh, err := manager.GenerateRefreshToken(uuid.New().String())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	router := newTestRouter(manager, true)
	userID := uuid.New()

	// Anonymous: vẫn 200, GetUserID trả uuid.Nil
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), uuid.Nil.String())

	// Invalid token: treated as anonymous, không 401
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Valid token: identity resolved
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, manager, userID))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}
