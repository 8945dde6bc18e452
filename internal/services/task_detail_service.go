package services

import (
	"errors"
	"strings"
	"time"

	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/models"
	"github.com/yukikurage/intern-task-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskDetailService manages task details and their assignee links.
type TaskDetailService struct {
	store repository.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewTaskDetailService creates a new TaskDetailService
func NewTaskDetailService(store repository.Store, log *zap.Logger) *TaskDetailService {
	return &TaskDetailService{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// CreateTaskDetailInput represents input for creating a task detail.
// Assignees are usernames.
type CreateTaskDetailInput struct {
	TaskID      uint64   `json:"task_id" validate:"required"`
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Assignees   []string `json:"assignees"`
}

// TaskDetailPatch represents a partial update. A non-nil Assignees replaces
// the whole assignee list.
type TaskDetailPatch struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	Assignees   *[]string `json:"assignees"`
}

// List returns every task detail
func (s *TaskDetailService) List() ([]models.TaskDetail, error) {
	details, err := s.store.TaskDetails().List()
	if err != nil {
		return nil, storeError("list", entityTaskDetail, err)
	}
	return details, nil
}

// Get retrieves a task detail by ID
func (s *TaskDetailService) Get(id uint64) (*models.TaskDetail, error) {
	detail, err := s.store.TaskDetails().FindByID(id)
	if err != nil {
		return nil, lookupError(entityTaskDetail, id, err)
	}
	return detail, nil
}

// ListByTask returns the details of a task. An unknown task yields an empty list.
func (s *TaskDetailService) ListByTask(taskID uint64) ([]models.TaskDetail, error) {
	details, err := s.store.TaskDetails().FindByTaskID(taskID)
	if err != nil {
		return nil, storeError("list", entityTaskDetail, err)
	}
	return details, nil
}

// ListAssignedTo returns the details a user is assigned to.
func (s *TaskDetailService) ListAssignedTo(userID uint64) ([]models.TaskDetail, error) {
	if _, err := s.store.Users().FindByID(userID); err != nil {
		return nil, lookupError(entityUser, userID, err)
	}
	details, err := s.store.Assignees().FindTaskDetailsByUserID(userID)
	if err != nil {
		return nil, storeError("list", entityTaskDetail, err)
	}
	return details, nil
}

// Assignees resolves the users assigned to a task detail.
func (s *TaskDetailService) Assignees(id uint64) ([]models.User, error) {
	if _, err := s.store.TaskDetails().FindByID(id); err != nil {
		return nil, lookupError(entityTaskDetail, id, err)
	}
	users, err := s.store.Assignees().FindUsersByTaskDetailID(id)
	if err != nil {
		return nil, storeError("list", entityAssignee, err)
	}
	return users, nil
}

// Create persists a task detail and links its assignees in one transaction.
// An unknown parent task or assignee username fails the whole operation.
func (s *TaskDetailService) Create(input CreateTaskDetailInput) (*models.TaskDetail, []models.User, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return nil, nil, err
	}

	status := models.TaskStatusAssigned
	if strings.TrimSpace(input.Status) != "" {
		var err error
		if status, err = models.ParseTaskStatus(input.Status); err != nil {
			return nil, nil, apierrors.Validation("status", err.Error())
		}
	}

	detail := &models.TaskDetail{
		TaskID:      input.TaskID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
	}

	var assignees []models.User
	err := s.store.Transaction(func(tx repository.Store) error {
		if _, err := tx.Tasks().FindByID(input.TaskID); err != nil {
			return lookupError(entityTask, input.TaskID, err)
		}
		if err := tx.TaskDetails().Create(detail); err != nil {
			return storeError("create", entityTaskDetail, err)
		}

		var err error
		assignees, err = s.assign(tx, detail.ID, input.Assignees)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("task detail created",
		zap.Uint64("task_detail_id", detail.ID),
		zap.Uint64("task_id", detail.TaskID),
		zap.Int("assignees", len(assignees)))
	return detail, assignees, nil
}

// Update applies a partial update, replacing the assignee list when given.
func (s *TaskDetailService) Update(id uint64, patch TaskDetailPatch) (*models.TaskDetail, error) {
	patch.Title = trimmed(patch.Title)
	if err := validateInput(patch); err != nil {
		return nil, err
	}

	var detail *models.TaskDetail
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		if detail, err = tx.TaskDetails().FindByID(id); err != nil {
			return lookupError(entityTaskDetail, id, err)
		}

		if patch.Title != nil {
			detail.Title = *patch.Title
		}
		if patch.Description != nil {
			detail.Description = *patch.Description
		}
		if patch.Status != nil {
			if detail.Status, err = models.ParseTaskStatus(*patch.Status); err != nil {
				return apierrors.Validation("status", err.Error())
			}
		}

		if err := tx.TaskDetails().Update(detail); err != nil {
			return storeError("update", entityTaskDetail, err)
		}

		if patch.Assignees != nil {
			if _, err := tx.Assignees().DeleteByTaskDetailID(id); err != nil {
				return storeError("delete", entityAssignee, err)
			}
			if _, err := s.assign(tx, id, *patch.Assignees); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// UpdateStatus sets the status of a task detail. Any status may follow any other.
func (s *TaskDetailService) UpdateStatus(id uint64, status string) (*models.TaskDetail, error) {
	if strings.TrimSpace(status) == "" {
		return nil, apierrors.Validation("status", "is required")
	}
	return s.Update(id, TaskDetailPatch{Status: &status})
}

// Delete removes a task detail after its assignee links. It returns false
// when the detail does not exist.
func (s *TaskDetailService) Delete(id uint64) (bool, error) {
	var deleted bool
	err := s.store.Transaction(func(tx repository.Store) error {
		var err error
		deleted, _, err = deleteTaskDetail(tx, id)
		return err
	})
	if err != nil {
		return false, storeError("delete", entityTaskDetail, err)
	}
	return deleted, nil
}

// assign resolves usernames and links them to the detail, in input order.
func (s *TaskDetailService) assign(tx repository.Store, detailID uint64, usernames []string) ([]models.User, error) {
	users := make([]models.User, 0, len(usernames))
	for _, raw := range usernames {
		username := strings.TrimSpace(raw)
		if username == "" {
			return nil, apierrors.Validation("assignees", "usernames cannot be empty")
		}

		user, err := tx.Users().FindByUsername(username)
		if err != nil {
			return nil, lookupError(entityUser, username, err)
		}

		link := &models.TaskDetailAssignee{
			TaskDetailID: detailID,
			UserID:       user.ID,
			AssignedAt:   s.now(),
		}
		if err := tx.Assignees().Create(link); err != nil {
			return nil, storeError("create", entityAssignee, err)
		}
		users = append(users, *user)
	}
	return users, nil
}

// deleteTaskDetail removes a detail's assignee links and then the detail.
// It must run inside a transaction.
func deleteTaskDetail(tx repository.Store, id uint64) (bool, int64, error) {
	if _, err := tx.TaskDetails().FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, nil
		}
		return false, 0, err
	}

	removed, err := tx.Assignees().DeleteByTaskDetailID(id)
	if err != nil {
		return false, 0, err
	}

	deleted, err := tx.TaskDetails().Delete(id)
	if err != nil {
		return false, removed, err
	}
	return deleted, removed, nil
}
