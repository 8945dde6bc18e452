package services

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/yukikurage/intern-task-api/internal/constants"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/models"
	"github.com/yukikurage/intern-task-api/internal/repository"
	"github.com/yukikurage/intern-task-api/internal/storage"
	"github.com/yukikurage/intern-task-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskService manages tasks and their attachments. Deleting a task removes its
// details, their assignee links and its attachments in one transaction.
type TaskService struct {
	store   repository.Store
	uploads storage.Uploader
	log     *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(store repository.Store, uploads storage.Uploader, log *zap.Logger) *TaskService {
	return &TaskService{
		store:   store,
		uploads: uploads,
		log:     log,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Code        string                  `json:"code" validate:"required,max=50"`
	Title       string                  `json:"title" validate:"required,max=255"`
	Description *string                 `json:"description"`
	Deadline    string                  `json:"deadline" validate:"required"`
	Status      string                  `json:"status"`
	CreatedBy   uint64                  `json:"created_by" validate:"required"`
	Attachments []*multipart.FileHeader `json:"-"`
}

// TaskPatch represents a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Code        *string `json:"code" validate:"omitempty,min=1,max=50"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Status      *string `json:"status"`
}

// List returns a page of tasks, newest first
func (s *TaskService) List(params utils.PaginationParams) ([]models.Task, int64, error) {
	tasks, total, err := s.store.Tasks().List(params)
	if err != nil {
		return nil, 0, storeError("list", entityTask, err)
	}
	return tasks, total, nil
}

// Get retrieves a task by ID
func (s *TaskService) Get(id uint64) (*models.Task, error) {
	task, err := s.store.Tasks().FindByID(id)
	if err != nil {
		return nil, lookupError(entityTask, id, err)
	}
	return task, nil
}

// Create validates the input, stores the uploaded files and persists the task
// with one attachment row per file. Stored files are removed again when the
// transaction fails.
func (s *TaskService) Create(input CreateTaskInput) (*models.Task, []models.TaskAttachment, error) {
	task, err := newTask(input)
	if err != nil {
		return nil, nil, err
	}

	var locations []string
	if len(input.Attachments) > 0 {
		locations, err = s.uploads.Save(input.Attachments, constants.UploadDirAttachments)
		if err != nil {
			return nil, nil, apierrors.StorageFailure("store", entityAttachment, err)
		}
	}

	var attachments []models.TaskAttachment
	err = s.store.Transaction(func(tx repository.Store) error {
		if _, err := tx.Users().FindByID(task.CreatedBy); err != nil {
			return lookupError(entityUser, task.CreatedBy, err)
		}
		if err := tx.Tasks().Create(task); err != nil {
			return storeError("create", entityTask, err)
		}

		attachments, err = createAttachments(tx, task.ID, locations)
		return err
	})
	if err != nil {
		s.removeFiles(locations)
		return nil, nil, err
	}

	s.log.Info("task created",
		zap.Uint64("task_id", task.ID),
		zap.Uint64("created_by", task.CreatedBy),
		zap.Int("attachments", len(attachments)))
	return task, attachments, nil
}

func newTask(input CreateTaskInput) (*models.Task, error) {
	input.Code = strings.TrimSpace(input.Code)
	input.Title = strings.TrimSpace(input.Title)
	input.Deadline = strings.TrimSpace(input.Deadline)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	deadline, err := utils.ParseISOTime(input.Deadline)
	if err != nil {
		return nil, apierrors.Validation("deadline", "must be an ISO-8601 date-time")
	}

	status := models.TaskStatusAssigned
	if strings.TrimSpace(input.Status) != "" {
		if status, err = models.ParseTaskStatus(input.Status); err != nil {
			return nil, apierrors.Validation("status", err.Error())
		}
	}

	return &models.Task{
		Code:        input.Code,
		Title:       input.Title,
		Description: input.Description,
		Deadline:    deadline,
		Status:      status,
		CreatedBy:   input.CreatedBy,
	}, nil
}

// Update applies a partial update to a task
func (s *TaskService) Update(id uint64, patch TaskPatch) (*models.Task, error) {
	task, err := s.store.Tasks().FindByID(id)
	if err != nil {
		return nil, lookupError(entityTask, id, err)
	}

	patch.Code = trimmed(patch.Code)
	patch.Title = trimmed(patch.Title)
	if err := validateInput(patch); err != nil {
		return nil, err
	}

	if patch.Code != nil {
		task.Code = *patch.Code
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = patch.Description
	}
	if patch.Deadline != nil {
		if task.Deadline, err = utils.ParseISOTime(*patch.Deadline); err != nil {
			return nil, apierrors.Validation("deadline", "must be an ISO-8601 date-time")
		}
	}
	if patch.Status != nil {
		if task.Status, err = models.ParseTaskStatus(*patch.Status); err != nil {
			return nil, apierrors.Validation("status", err.Error())
		}
	}

	if err := s.store.Tasks().Update(task); err != nil {
		return nil, storeError("update", entityTask, err)
	}
	return task, nil
}

// Delete removes a task with its details, their assignee links and its
// attachments, children first. It returns false when the task does not exist.
// Backing files are removed after the commit; a failed removal is logged only.
func (s *TaskService) Delete(id uint64) (bool, error) {
	var (
		found       bool
		details     int
		assignees   int64
		attachments []models.TaskAttachment
	)

	err := s.store.Transaction(func(tx repository.Store) error {
		if _, err := tx.Tasks().FindByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true

		children, err := tx.TaskDetails().FindByTaskID(id)
		if err != nil {
			return err
		}
		for _, detail := range children {
			_, removed, err := deleteTaskDetail(tx, detail.ID)
			if err != nil {
				return err
			}
			assignees += removed
		}
		details = len(children)

		if attachments, err = tx.Attachments().FindByTaskID(id); err != nil {
			return err
		}
		if _, err := tx.Attachments().DeleteByTaskID(id); err != nil {
			return err
		}

		_, err = tx.Tasks().Delete(id)
		return err
	})
	if err != nil {
		s.log.Error("task delete rolled back", zap.Uint64("task_id", id), zap.Error(err))
		return false, storeError("delete", entityTask, err)
	}
	if !found {
		return false, nil
	}

	for _, attachment := range attachments {
		s.removeFile(attachment.FilePath)
	}

	s.log.Info("task deleted",
		zap.Uint64("task_id", id),
		zap.Int("details", details),
		zap.Int64("assignees", assignees),
		zap.Int("attachments", len(attachments)))
	return true, nil
}

// CountIncompleteDetails counts the task's details whose status is not Completed.
func (s *TaskService) CountIncompleteDetails(taskID uint64) (int64, error) {
	if _, err := s.store.Tasks().FindByID(taskID); err != nil {
		return 0, lookupError(entityTask, taskID, err)
	}
	count, err := s.store.TaskDetails().CountIncompleteByTaskID(taskID)
	if err != nil {
		return 0, storeError("count", entityTaskDetail, err)
	}
	return count, nil
}

// AddAttachments stores files for an existing task.
func (s *TaskService) AddAttachments(taskID uint64, files []*multipart.FileHeader) ([]models.TaskAttachment, error) {
	if len(files) == 0 {
		return nil, apierrors.Validation(constants.FormFieldAttachments, "at least one file is required")
	}
	if _, err := s.store.Tasks().FindByID(taskID); err != nil {
		return nil, lookupError(entityTask, taskID, err)
	}

	locations, err := s.uploads.Save(files, constants.UploadDirAttachments)
	if err != nil {
		return nil, apierrors.StorageFailure("store", entityAttachment, err)
	}

	var attachments []models.TaskAttachment
	err = s.store.Transaction(func(tx repository.Store) error {
		attachments, err = createAttachments(tx, taskID, locations)
		return err
	})
	if err != nil {
		s.removeFiles(locations)
		return nil, err
	}
	return attachments, nil
}

// ListAttachments returns the attachments of an existing task.
func (s *TaskService) ListAttachments(taskID uint64) ([]models.TaskAttachment, error) {
	if _, err := s.store.Tasks().FindByID(taskID); err != nil {
		return nil, lookupError(entityTask, taskID, err)
	}
	attachments, err := s.store.Attachments().FindByTaskID(taskID)
	if err != nil {
		return nil, storeError("list", entityAttachment, err)
	}
	return attachments, nil
}

// DeleteAttachment removes one attachment row and its file. It returns false
// when the attachment does not exist or belongs to another task.
func (s *TaskService) DeleteAttachment(taskID, attachmentID uint64) (bool, error) {
	attachment, err := s.findAttachment(taskID, attachmentID)
	if err != nil {
		if apierrors.IsKind(err, apierrors.KindNotFound) {
			return false, nil
		}
		return false, err
	}

	deleted, err := s.store.Attachments().Delete(attachment.ID)
	if err != nil {
		return false, storeError("delete", entityAttachment, err)
	}
	if deleted {
		s.removeFile(attachment.FilePath)
	}
	return deleted, nil
}

// AttachmentFile resolves the stored file of an attachment.
func (s *TaskService) AttachmentFile(taskID, attachmentID uint64) (*models.TaskAttachment, string, error) {
	attachment, err := s.findAttachment(taskID, attachmentID)
	if err != nil {
		return nil, "", err
	}
	path, err := s.uploads.Path(attachment.FilePath)
	if err != nil {
		return nil, "", apierrors.StorageFailure("resolve", entityAttachment, err)
	}
	return attachment, path, nil
}

func (s *TaskService) findAttachment(taskID, attachmentID uint64) (*models.TaskAttachment, error) {
	attachment, err := s.store.Attachments().FindByID(attachmentID)
	if err != nil {
		return nil, lookupError(entityAttachment, attachmentID, err)
	}
	if attachment.TaskID != taskID {
		return nil, apierrors.NotFound(entityAttachment, attachmentID)
	}
	return attachment, nil
}

func createAttachments(tx repository.Store, taskID uint64, locations []string) ([]models.TaskAttachment, error) {
	attachments := make([]models.TaskAttachment, 0, len(locations))
	for _, location := range locations {
		attachment := models.TaskAttachment{TaskID: taskID, FilePath: location}
		if err := tx.Attachments().Create(&attachment); err != nil {
			return nil, storeError("create", entityAttachment, err)
		}
		attachments = append(attachments, attachment)
	}
	return attachments, nil
}

func (s *TaskService) removeFiles(locations []string) {
	for _, location := range locations {
		s.removeFile(location)
	}
}

func (s *TaskService) removeFile(location string) {
	if err := s.uploads.Remove(location); err != nil {
		s.log.Warn("failed to remove stored file", zap.String("location", location), zap.Error(err))
	}
}
