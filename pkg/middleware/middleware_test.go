package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mem "orgaclients/pkg/memcache"
	"orgaclients/pkg/utils"
)

func newProtectedRouter(tokens *utils.TokenManager, denylist mem.TokenDenylist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceIDMiddleware())
	auth := r.Group("/", JWTAuthMiddleware(tokens, denylist))
	auth.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxEmail))
	})
	auth.GET("/admin", RoleMiddleware("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	denylist := mem.NewRevokedTokens()
	r := newProtectedRouter(tokens, denylist)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage").Code)

	token, err := tokens.CreateToken(uuid.New(), "bob@example.com", "client")
	require.NoError(t, err)

	w := do(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob@example.com", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(TraceHeader))

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", token).Code)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, denylist.Revoke(context.Background(), claims.ID, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", token).Code)
}

func TestAdminRoleAllowed(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := newProtectedRouter(tokens, mem.NewRevokedTokens())

	token, err := tokens.CreateToken(uuid.New(), "admin@example.com", "admin")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, "/admin", token).Code)
}

func TestTraceIDReusesValidHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("trace_id")) })

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceHeader, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/upload", BodyLimit(16), func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if BodyTooLarge(c, err) {
			utils.HandleServiceError(c, utils.ErrFileTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})
	send := func(body []byte, length int64) int {
		req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader(body))
		req.ContentLength = length
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(make([]byte, 16), 16))
	assert.Equal(t, http.StatusRequestEntityTooLarge, send(make([]byte, 17), 17))
	assert.Equal(t, http.StatusOK, send(make([]byte, 8), -1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, send(make([]byte, 64), -1))
}
