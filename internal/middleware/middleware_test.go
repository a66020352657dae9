package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com"}))
	admin := r.Group("/admin", Auth(secret), RequireAdmin())
	admin.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"hostel_id": GetHostelID(c), "role": GetUserRole(c)})
	})
	me := r.Group("/me", Auth(secret), RequireResident())
	me.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	return r
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_RoleScoping(t *testing.T) {
	r := router()
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	adminToken := sign(t, Claims{HostelID: 7, Role: "admin", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}})
	residentToken := sign(t, Claims{UserID: 3, HostelID: 7, Role: "resident", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}})

	w := do(r, http.MethodGet, "/admin/whoami", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hostel_id":7,"role":"admin"}`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin/whoami", residentToken).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/me", adminToken).Code)

	w = do(r, http.MethodGet, "/me", residentToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":3}`, w.Body.String())
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	r := router()

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "garbage").Code)

	expired := sign(t, Claims{UserID: 3, Role: "resident", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	w := do(r, http.MethodGet, "/me", expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has expired")
}

func TestCORS(t *testing.T) {
	r := router()

	req := httptest.NewRequest(http.MethodOptions, "/me", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/me", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
