package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/intern-task-api/internal/config"
	"github.com/yukikurage/intern-task-api/internal/constants"
	"github.com/yukikurage/intern-task-api/internal/database"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/models"
	"github.com/yukikurage/intern-task-api/internal/repository"
	"github.com/yukikurage/intern-task-api/internal/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	auth    *services.AuthService
	tokens  *services.TokenService
	intern  *models.User
	manager *models.User
	router  *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", Name: ":memory:", LogLevel: "silent"}, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, log))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store := repository.NewStore(db)
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	intern := &models.User{Username: "ivy", Email: "ivy@example.com", PasswordHash: "x", Role: models.RoleIntern, Gender: models.GenderFemale, StartDate: start}
	manager := &models.User{Username: "max", Email: "max@example.com", PasswordHash: "x", Role: models.RoleManager, Gender: models.GenderMale, StartDate: start}
	require.NoError(t, store.Users().Create(intern))
	require.NoError(t, store.Users().Create(manager))

	tokens := services.NewTokenService(config.AuthConfig{JWTSecret: "middleware-test-secret"})
	auth := services.NewAuthService(services.NewUserService(store, nil, log), tokens, log)

	r := gin.New()
	authed := r.Group("/", RequireAuth(auth))
	authed.GET("/me", func(c *gin.Context) {
		id, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	authed.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	authed.GET("/users/:id", RequireSelfOrAdmin("id"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return &fixture{auth: auth, tokens: tokens, intern: intern, manager: manager, router: r}
}

func (f *fixture) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := f.tokens.IssueAccessToken(user)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(req *http.Request) (*httptest.ResponseRecorder, apierrors.APIError) {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	var body apierrors.APIError
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRequireAuth_Failures(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w, body := f.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, services.MsgTokenMissing, body.Message)
	assert.False(t, body.Success)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w, body = f.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, services.MsgTokenInvalid, body.Message)

	refresh, err := f.tokens.IssueRefreshToken(f.intern.ID)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w, body = f.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, services.MsgTokenInvalid, body.Message)

	ghost := f.token(t, &models.User{ID: 777, Role: models.RoleManager})
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+ghost)
	w, body = f.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, services.MsgUserNotFound, body.Message)
}

func TestRequireAuth_HeaderAndCookie(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, f.intern)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, _ := f.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"INTERN"`)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: token})
	w, _ = f.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, f.intern))
	w, body := f.do(req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin privileges required", body.Message)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, f.manager))
	w, _ = f.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_UsesStoredRole(t *testing.T) {
	f := newFixture(t)

	// A token minted with a stale MANAGER role does not outrank the stored INTERN role.
	stale := f.token(t, &models.User{ID: f.intern.ID, Role: models.RoleManager})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+stale)
	w, _ := f.do(req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	f := newFixture(t)
	internToken := f.token(t, f.intern)

	cases := []struct {
		path   string
		token  string
		status int
	}{
		{"/users/" + itoa(f.intern.ID), internToken, http.StatusOK},
		{"/users/" + itoa(f.manager.ID), internToken, http.StatusForbidden},
		{"/users/" + itoa(f.intern.ID), f.token(t, f.manager), http.StatusOK},
		{"/users/abc", internToken, http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		w, _ := f.do(req)
		assert.Equal(t, tc.status, w.Code, tc.path)
	}
}

func TestLogger_LevelsByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/boom", entries[2].ContextMap()["path"])
}

func TestMetrics_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/tasks/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("/tasks/:id", http.MethodGet, "200"))
	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tasks/"+id, nil))
	}
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("/tasks/:id", http.MethodGet, "200"))
	assert.Equal(t, before+2, after)
}

func TestExtractToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "bearer abc")
	assert.Equal(t, "abc", ExtractToken(c, constants.AccessTokenCookieName))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Basic "+strings.Repeat("x", 8))
	c.Request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", ExtractToken(c, constants.AccessTokenCookieName))
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
