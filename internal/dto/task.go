package dto

import (
	"time"

	"github.com/yukikurage/intern-task-api/internal/models"
	"github.com/yukikurage/intern-task-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Code        string            `json:"code"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Deadline    time.Time         `json:"deadline"`
	Status      models.TaskStatus `json:"status"`
	CreatedBy   uint64            `json:"created_by"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Attachments []AttachmentDTO   `json:"attachments,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// AttachmentDTO represents a task attachment in API responses
type AttachmentDTO struct {
	ID         uint64    `json:"id"`
	TaskID     uint64    `json:"task_id"`
	FilePath   string    `json:"file_path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TaskDetailDTO represents a task detail in API responses
type TaskDetailDTO struct {
	ID          uint64            `json:"id"`
	TaskID      uint64            `json:"task_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Assignees   []AssigneeDTO     `json:"assignees,omitempty"`
}

// AssigneeDTO is the short user form shown on task details
type AssigneeDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// IncompleteCountDTO reports how many details of a task are not completed
type IncompleteCountDTO struct {
	TaskID     uint64 `json:"task_id"`
	Incomplete int64  `json:"incomplete"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task, attachments []models.TaskAttachment) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Code:        task.Code,
		Title:       task.Title,
		Description: task.Description,
		Deadline:    task.Deadline,
		Status:      task.Status,
		CreatedBy:   task.CreatedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if len(attachments) > 0 {
		dto.Attachments = ToAttachmentDTOs(attachments)
	}
	return dto
}

// ToTaskListResponse builds a paginated task list
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, nil)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalCount: total,
		TotalPages: params.TotalPages(total),
	}
}

// ToAttachmentDTOs converts attachments, never returning nil
func ToAttachmentDTOs(attachments []models.TaskAttachment) []AttachmentDTO {
	dtos := make([]AttachmentDTO, len(attachments))
	for i, a := range attachments {
		dtos[i] = AttachmentDTO{
			ID:         a.ID,
			TaskID:     a.TaskID,
			FilePath:   a.FilePath,
			UploadedAt: a.UploadedAt,
		}
	}
	return dtos
}

// ToTaskDetailDTO converts a TaskDetail and its resolved assignees
func ToTaskDetailDTO(detail models.TaskDetail, assignees []models.User) TaskDetailDTO {
	dto := TaskDetailDTO{
		ID:          detail.ID,
		TaskID:      detail.TaskID,
		Title:       detail.Title,
		Description: detail.Description,
		Status:      detail.Status,
		CreatedAt:   detail.CreatedAt,
		UpdatedAt:   detail.UpdatedAt,
	}
	if len(assignees) > 0 {
		dto.Assignees = ToAssigneeDTOs(assignees)
	}
	return dto
}

// ToTaskDetailDTOs converts a list of task details without assignees
func ToTaskDetailDTOs(details []models.TaskDetail) []TaskDetailDTO {
	dtos := make([]TaskDetailDTO, len(details))
	for i, d := range details {
		dtos[i] = ToTaskDetailDTO(d, nil)
	}
	return dtos
}

func ToAssigneeDTOs(users []models.User) []AssigneeDTO {
	dtos := make([]AssigneeDTO, len(users))
	for i, u := range users {
		dtos[i] = AssigneeDTO{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return dtos
}
