package services

import (
	"bytes"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/intern-task-api/internal/config"
	"github.com/yukikurage/intern-task-api/internal/database"
	"github.com/yukikurage/intern-task-api/internal/models"
	"github.com/yukikurage/intern-task-api/internal/repository"
	"github.com/yukikurage/intern-task-api/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	store   repository.Store
	uploads *storage.LocalStorage
	users   *UserService
	auth    *AuthService
	tasks   *TaskService
	details *TaskDetailService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", Name: ":memory:", LogLevel: "silent"}, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, log))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	uploads, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	store := repository.NewStore(db)
	users := NewUserService(store, uploads, log)
	users.hashCost = bcrypt.MinCost

	return &testEnv{
		db:      db,
		store:   store,
		uploads: uploads,
		users:   users,
		auth:    NewAuthService(users, newTestTokenService(), log),
		tasks:   NewTaskService(store, uploads, log),
		details: NewTaskDetailService(store, log),
	}
}

func (e *testEnv) createUser(t *testing.T, username, email, password string, role models.UserRole) *models.User {
	t.Helper()
	user, err := e.users.Create(CreateUserInput{
		Username:  username,
		Email:     email,
		Password:  password,
		StartDate: "2025-01-06",
		Role:      string(role),
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createTask(t *testing.T, creator *models.User, files ...*multipart.FileHeader) (*models.Task, []models.TaskAttachment) {
	t.Helper()
	task, attachments, err := e.tasks.Create(CreateTaskInput{
		Code:        "T-100",
		Title:       "Set up laptop",
		Deadline:    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		CreatedBy:   creator.ID,
		Attachments: files,
	})
	require.NoError(t, err)
	return task, attachments
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func uploadFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["files"]
}
