package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func adminTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(AdminAuthMiddleware(&AuthConfig{JWTSecret: testSecret}))
	engine.GET("/admin", func(c *gin.Context) {
		userID := c.GetString("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return engine
}

func TestAdminAuthMiddleware(t *testing.T) {
	engine := adminTestRouter()

	adminToken := signToken(t, jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testSecret)
	studentToken := signToken(t, jwt.MapClaims{
		"sub":  "u2",
		"role": "student",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testSecret)
	expiredToken := signToken(t, jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}, testSecret)
	wrongKeyToken := signToken(t, jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, "other-secret")

	testCases := []struct {
		name       string
		authHeader string
		statusCode int
	}{
		{"管理员放行", "Bearer " + adminToken, http.StatusOK},
		{"缺少头", "", http.StatusUnauthorized},
		{"非 Bearer", "Basic abc", http.StatusUnauthorized},
		{"签名不匹配", "Bearer " + wrongKeyToken, http.StatusUnauthorized},
		{"已过期", "Bearer " + expiredToken, http.StatusUnauthorized},
		{"非管理员角色", "Bearer " + studentToken, http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != tc.statusCode {
				t.Errorf("Status = %d, want %d (body: %s)", rec.Code, tc.statusCode, rec.Body.String())
			}
		})
	}
}
