package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger(), Auth(secret))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UserIDKey))
	})
	return r
}

func call(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_Claims(t *testing.T) {
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	w := call(r, "Bearer "+signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"id": "user-1", "exp": exp}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())

	w = call(r, "Bearer "+signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "user-2", "exp": exp}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-2", w.Body.String())
}

func TestAuth_Rejects(t *testing.T) {
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"wrong secret", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"id": "u", "exp": exp})},
		{"expired", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"id": "u", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"other alg", "Bearer " + signed(t, jwt.SigningMethodHS512, []byte(secret), jwt.MapClaims{"id": "u", "exp": exp})},
		{"no user claim", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"exp": exp})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, call(r, tt.header).Code)
		})
	}
}
