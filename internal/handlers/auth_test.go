package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/intern-task-api/internal/config"
	"github.com/yukikurage/intern-task-api/internal/constants"
	"github.com/yukikurage/intern-task-api/internal/database"
	"github.com/yukikurage/intern-task-api/internal/dto"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/middleware"
	"github.com/yukikurage/intern-task-api/internal/repository"
	"github.com/yukikurage/intern-task-api/internal/services"
	"github.com/yukikurage/intern-task-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	userService *services.UserService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", Name: ":memory:", LogLevel: "silent"}, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, log))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	uploads, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	store := repository.NewStore(db)
	userService := services.NewUserService(store, uploads, log)
	tokens := services.NewTokenService(config.AuthConfig{JWTSecret: "handler-test-secret"})
	authService := services.NewAuthService(userService, tokens, log)
	handler := NewAuthHandler(authService, CookieConfig{Secure: true})

	r := gin.New()
	r.POST("/api/auth/register", handler.Register)
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/refresh", handler.Refresh)
	r.GET("/api/auth/validate", handler.Validate)
	r.POST("/api/auth/logout", handler.Logout)
	r.GET("/api/auth/me", middleware.RequireAuth(authService), handler.GetCurrentUser)

	return authTestEnv{
		db:          db,
		router:      r,
		authService: authService,
		userService: userService,
	}
}

func (env authTestEnv) post(t *testing.T, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, data interface{}) {
	t.Helper()
	envelope := struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, data))
}

func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.post(t, "/api/auth/register", map[string]interface{}{
		"username":   "newuser",
		"email":      "new@example.com",
		"password":   "supersecret",
		"start_date": "2025-02-03",
		"role":       "MANAGER",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user dto.UserDTO
	decodeData(t, w, &user)
	assert.Equal(t, "newuser", user.Username)
	assert.Equal(t, "INTERN", string(user.Role))
	assert.Equal(t, "2025-02-03", user.StartDate)
	assert.NotContains(t, w.Body.String(), "password")

	w = env.post(t, "/api/auth/register", map[string]interface{}{
		"username":   "other",
		"email":      "new@example.com",
		"password":   "supersecret",
		"start_date": "2025-02-03",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.post(t, "/api/auth/register", map[string]interface{}{
		"username": "nodate",
		"email":    "nodate@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, apierrors.ErrCodeInvalidInput, apiErr.Code)
	assert.Contains(t, apiErr.Message, "start_date")
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.userService.Create(services.CreateUserInput{
		Username:  "alice",
		Email:     "a@b.com",
		Password:  "secret",
		StartDate: "2025-01-06",
	})
	require.NoError(t, err)

	w := env.post(t, "/api/auth/login", map[string]string{"email": "a@b.com", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var login dto.LoginResponse
	decodeData(t, w, &login)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Equal(t, "alice", login.User.Username)

	access := cookieByName(w, constants.AccessTokenCookieName)
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteNoneMode, access.SameSite)
	assert.Equal(t, 15*60, access.MaxAge)

	refresh := cookieByName(w, constants.RefreshTokenCookieName)
	require.NotNil(t, refresh)
	assert.Equal(t, 7*24*60*60, refresh.MaxAge)

	w = env.post(t, "/api/auth/login", map[string]string{"email": "a@b.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.False(t, apiErr.Success)
}

func TestAuthHandler_RefreshValidateMe(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.userService.Create(services.CreateUserInput{
		Username:  "bob",
		Email:     "bob@example.com",
		Password:  "secret",
		StartDate: "2025-01-06",
		Role:      "manager",
	})
	require.NoError(t, err)

	pair, err := env.authService.Login("bob@example.com", "secret")
	require.NoError(t, err)

	// Refresh token from the cookie
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: pair.RefreshToken})
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed dto.RefreshResponse
	decodeData(t, w, &refreshed)
	require.NotEmpty(t, refreshed.AccessToken)

	// Refresh token from the body, using an access token instead
	w = env.post(t, "/api/auth/refresh", map[string]string{"refresh_token": pair.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+refreshed.AccessToken)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var claims dto.ClaimsDTO
	decodeData(t, w, &claims)
	assert.Equal(t, "MANAGER", string(claims.Role))
	assert.Greater(t, claims.Exp, claims.Iat)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: refreshed.AccessToken})
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var me dto.UserDTO
	decodeData(t, w, &me)
	assert.Equal(t, "bob", me.Username)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		cookie := cookieByName(w, name)
		require.NotNil(t, cookie, name)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}
