package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"user_accounts/internal/model"
	"user_accounts/internal/repository"
	"user_accounts/internal/service"
	"user_accounts/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, service.AccountService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryUserRepository()
	svc := service.NewAccountService(repo, utils.NewJWTUtil("test-secret", 172800))

	router := gin.New()
	router.GET("/protected", AuthMiddleware(svc), func(c *gin.Context) {
		user := c.MustGet(AuthUserKey).(*model.User)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return router, svc
}

func loginToken(t *testing.T, svc service.AccountService) string {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	_, token, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router, svc := setupRouter(t)
	token := loginToken(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router, svc := setupRouter(t)
	token := loginToken(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", token) // no Bearer prefix
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
