package repository

import (
	"github.com/yukikurage/intern-task-api/internal/models"
	"github.com/yukikurage/intern-task-api/internal/utils"
)

// Store groups the per-entity repositories and runs units of work atomically.
type Store interface {
	Users() UserRepository
	Tasks() TaskRepository
	TaskDetails() TaskDetailRepository
	Assignees() AssigneeRepository
	Attachments() AttachmentRepository

	// Transaction runs fn against a store bound to a single transaction.
	// The transaction is rolled back when fn returns an error or panics.
	Transaction(fn func(tx Store) error) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// List retrieves a page of users and the total count
	List(params utils.PaginationParams) ([]models.User, int64, error)

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Create creates a new user
	Create(user *models.User) error

	// Update saves all fields of a user
	Update(user *models.User) error

	// Delete hard deletes a user, reporting whether a row was removed
	Delete(id uint64) (bool, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	List(params utils.PaginationParams) ([]models.Task, int64, error)
	FindByID(id uint64) (*models.Task, error)
	Create(task *models.Task) error
	Update(task *models.Task) error

	// Delete removes the task row only; children must already be gone
	Delete(id uint64) (bool, error)
}

// TaskDetailRepository defines the interface for task detail data access
type TaskDetailRepository interface {
	List() ([]models.TaskDetail, error)
	FindByID(id uint64) (*models.TaskDetail, error)
	FindByTaskID(taskID uint64) ([]models.TaskDetail, error)
	Create(detail *models.TaskDetail) error
	Update(detail *models.TaskDetail) error
	Delete(id uint64) (bool, error)

	// CountIncompleteByTaskID counts details of a task whose status is not Completed
	CountIncompleteByTaskID(taskID uint64) (int64, error)
}

// AssigneeRepository defines the interface for task detail assignee links
type AssigneeRepository interface {
	Create(assignee *models.TaskDetailAssignee) error
	FindByTaskDetailID(taskDetailID uint64) ([]models.TaskDetailAssignee, error)

	// FindUsersByTaskDetailID resolves the users linked to a task detail
	FindUsersByTaskDetailID(taskDetailID uint64) ([]models.User, error)

	// FindTaskDetailsByUserID returns each task detail the user is linked to once
	FindTaskDetailsByUserID(userID uint64) ([]models.TaskDetail, error)

	DeleteByTaskDetailID(taskDetailID uint64) (int64, error)
}

// AttachmentRepository defines the interface for task attachment data access
type AttachmentRepository interface {
	Create(attachment *models.TaskAttachment) error
	FindByID(id uint64) (*models.TaskAttachment, error)
	FindByTaskID(taskID uint64) ([]models.TaskAttachment, error)
	Delete(id uint64) (bool, error)
	DeleteByTaskID(taskID uint64) (int64, error)
}
