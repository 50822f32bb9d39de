package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/services"
)

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	secret := "test-secret-middleware"
	issuer := "test-issuer"
	tokenService := services.NewTokenService(secret, issuer, time.Hour)

	router := gin.New()
	router.Use(AuthMiddleware(tokenService))
	router.GET("/protected", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.String(http.StatusInternalServerError, "UserID not found in context")
			return
		}
		c.String(http.StatusOK, "Hello "+userID)
	})

	validToken, _ := tokenService.GenerateToken("user-123")
	expiredToken, _ := services.NewTokenService(secret, issuer, -time.Minute).GenerateToken("user-123")
	foreignToken, _ := services.NewTokenService("other-secret", issuer, time.Hour).GenerateToken("user-123")

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"Success: Valid Token", "Bearer " + validToken, http.StatusOK, "Hello user-123"},
		{"Success: Scheme is case-insensitive", "bearer " + validToken, http.StatusOK, "Hello user-123"},
		{"Fail: Missing Header", "", http.StatusUnauthorized, "authorization header required"},
		{"Fail: Wrong Scheme", "Basic abc", http.StatusUnauthorized, "invalid authorization header format"},
		{"Fail: Extra Fields", "Bearer a b", http.StatusUnauthorized, "invalid authorization header format"},
		{"Fail: Expired Token", "Bearer " + expiredToken, http.StatusUnauthorized, "invalid or expired token"},
		{"Fail: Foreign Secret", "Bearer " + foreignToken, http.StatusUnauthorized, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
