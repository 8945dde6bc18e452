package handlers

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-task-api/internal/constants"
	"github.com/yukikurage/intern-task-api/internal/dto"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/middleware"
	"github.com/yukikurage/intern-task-api/internal/services"
	"github.com/yukikurage/intern-task-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns a page of tasks, newest first
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.List(params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns a task with its attachments
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	attachments, err := h.taskService.ListAttachments(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.ToTaskDTO(*task, attachments))
}

// CreateTask creates a task from a JSON or multipart body. Multipart bodies
// may carry files in the attachments field.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Code        string  `json:"code" form:"code"`
		Title       string  `json:"title" form:"title"`
		Description *string `json:"description" form:"description"`
		Deadline    string  `json:"deadline" form:"deadline"`
		Status      string  `json:"status" form:"status"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.RespondUnauthorized(c, "Not authenticated")
		return
	}

	var req CreateTaskRequest
	if !bindBody(c, &req) {
		return
	}

	task, attachments, err := h.taskService.Create(services.CreateTaskInput{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Status:      req.Status,
		CreatedBy:   userID,
		Attachments: formFiles(c, constants.FormFieldAttachments),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusCreated, "Task created successfully", dto.ToTaskDTO(*task, attachments))
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Code        *string `json:"code"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Deadline    *string `json:"deadline"`
		Status      *string `json:"status"`
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(id, services.TaskPatch{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Status:      req.Status,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "Task updated successfully", dto.ToTaskDTO(*task, nil))
}

// DeleteTask deletes a task and everything hanging off it
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.taskService.Delete(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	if !deleted {
		apierrors.Respond(c, apierrors.NotFound("task", id))
		return
	}

	dto.Respond(c, http.StatusOK, "Task deleted successfully", nil)
}

// CountIncompleteDetails reports how many details of a task are not completed
func (h *TaskHandler) CountIncompleteDetails(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	count, err := h.taskService.CountIncompleteDetails(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.IncompleteCountDTO{TaskID: id, Incomplete: count})
}

// AddAttachments uploads files to an existing task
func (h *TaskHandler) AddAttachments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !isMultipart(c) {
		apierrors.BadRequest(c, "Expected multipart/form-data")
		return
	}

	attachments, err := h.taskService.AddAttachments(id, formFiles(c, constants.FormFieldAttachments))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusCreated, "Attachments uploaded successfully", dto.ToAttachmentDTOs(attachments))
}

// ListAttachments lists a task's attachments
func (h *TaskHandler) ListAttachments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	attachments, err := h.taskService.ListAttachments(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.ToAttachmentDTOs(attachments))
}

// DownloadAttachment streams an attachment's file
func (h *TaskHandler) DownloadAttachment(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "attachmentId")
	if !ok {
		return
	}

	attachment, filePath, err := h.taskService.AttachmentFile(taskID, attachmentID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.FileAttachment(filePath, originalName(attachment.FilePath))
}

// DeleteAttachment removes one attachment
func (h *TaskHandler) DeleteAttachment(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "attachmentId")
	if !ok {
		return
	}

	deleted, err := h.taskService.DeleteAttachment(taskID, attachmentID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	if !deleted {
		apierrors.Respond(c, apierrors.NotFound("attachment", attachmentID))
		return
	}

	dto.Respond(c, http.StatusOK, "Attachment deleted successfully", nil)
}

// originalName strips the unique prefix added when the file was stored.
func originalName(location string) string {
	base := path.Base(location)
	if _, name, found := strings.Cut(base, "_"); found && name != "" {
		return name
	}
	return base
}
