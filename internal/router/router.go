package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/intern-task-api/internal/handlers"
	"github.com/yukikurage/intern-task-api/internal/middleware"
	"github.com/yukikurage/intern-task-api/internal/services"
	"go.uber.org/zap"
)

// Deps holds everything the route table needs.
type Deps struct {
	Logger         *zap.Logger
	Auth           *services.AuthService
	Users          *services.UserService
	Tasks          *services.TaskService
	TaskDetails    *services.TaskDetailService
	Cookies        handlers.CookieConfig
	MaxUploadBytes int64
}

// New builds the gin engine with every route registered.
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(deps.Logger), middleware.Metrics())
	if deps.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = deps.MaxUploadBytes
		r.Use(middleware.BodyLimit(deps.MaxUploadBytes))
	}

	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Cookies)
	userHandler := handlers.NewUserHandler(deps.Users)
	taskHandler := handlers.NewTaskHandler(deps.Tasks)
	detailHandler := handlers.NewTaskDetailHandler(deps.TaskDetails)

	requireAuth := middleware.RequireAuth(deps.Auth)
	requireAdmin := middleware.RequireAdmin()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/validate", authHandler.Validate)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("", requireAdmin, userHandler.ListUsers)
			users.POST("", requireAdmin, userHandler.CreateUser)
			users.GET("/:id", middleware.RequireSelfOrAdmin("id"), userHandler.GetUser)
			users.GET("/:id/task-details", middleware.RequireSelfOrAdmin("id"), detailHandler.ListByUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", requireAdmin, userHandler.DeleteUser)
		}

		tasks := api.Group("/tasks", requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", requireAdmin, taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", requireAdmin, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireAdmin, taskHandler.DeleteTask)
			tasks.GET("/:id/details", detailHandler.ListByTask)
			tasks.GET("/:id/incomplete-count", taskHandler.CountIncompleteDetails)
			tasks.GET("/:id/attachments", taskHandler.ListAttachments)
			tasks.POST("/:id/attachments", requireAdmin, taskHandler.AddAttachments)
			tasks.GET("/:id/attachments/:attachmentId/download", taskHandler.DownloadAttachment)
			tasks.DELETE("/:id/attachments/:attachmentId", requireAdmin, taskHandler.DeleteAttachment)
		}

		details := api.Group("/task-details", requireAuth)
		{
			details.GET("", detailHandler.ListTaskDetails)
			details.POST("", requireAdmin, detailHandler.CreateTaskDetail)
			details.GET("/:id", detailHandler.GetTaskDetail)
			details.PUT("/:id", requireAdmin, detailHandler.UpdateTaskDetail)
			details.PATCH("/:id/status", detailHandler.UpdateStatus)
			details.DELETE("/:id", requireAdmin, detailHandler.DeleteTaskDetail)
			details.GET("/:id/assignees", detailHandler.ListAssignees)
		}
	}

	return r
}
