package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/internal/model"
	"marketplace/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(maker *token.Maker) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(maker), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": currentUserID(c)})
	})
	r.GET("/seller-only", AuthMiddleware(maker), RoleRequired(model.RoleSeller), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	maker := token.NewMaker("test-secret-at-least-32-bytes-long", time.Hour)
	router := newTestRouter(maker)

	tokenStr, err := maker.Create(42, model.RoleSeller)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"有效 token", "Bearer " + tokenStr, http.StatusOK},
		{"缺少头", "", http.StatusUnauthorized},
		{"格式错误", tokenStr, http.StatusUnauthorized},
		{"错误 scheme", "Basic " + tokenStr, http.StatusUnauthorized},
		{"伪造 token", "Bearer invalid.token.here", http.StatusUnauthorized},
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

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	expiredMaker := token.NewMaker("test-secret-at-least-32-bytes-long", -time.Minute)
	router := newTestRouter(expiredMaker)

	tokenStr, err := expiredMaker.Create(42, model.RoleSeller)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleRequired(t *testing.T) {
	maker := token.NewMaker("test-secret-at-least-32-bytes-long", time.Hour)
	router := newTestRouter(maker)

	sellerToken, err := maker.Create(1, model.RoleSeller)
	require.NoError(t, err)
	customerToken, err := maker.Create(2, model.RoleCustomer)
	require.NoError(t, err)

	// 卖家可以访问
	req := httptest.NewRequest(http.MethodGet, "/seller-only", nil)
	req.Header.Set("Authorization", "Bearer "+sellerToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 顾客被拒绝
	req = httptest.NewRequest(http.MethodGet, "/seller-only", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(ctxKeyRequestID)})
	})

	// 未携带时自动生成
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// 客户端携带时沿用
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "trace-abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "trace-abc-123", w.Header().Get("X-Request-ID"))
}
