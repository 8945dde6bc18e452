package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-task-api/internal/dto"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/services"
)

type TaskDetailHandler struct {
	detailService *services.TaskDetailService
}

func NewTaskDetailHandler(detailService *services.TaskDetailService) *TaskDetailHandler {
	return &TaskDetailHandler{detailService: detailService}
}

func (h *TaskDetailHandler) ListTaskDetails(c *gin.Context) {
	details, err := h.detailService.List()
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.ToTaskDetailDTOs(details))
}

// GetTaskDetail returns a task detail with its assignees
func (h *TaskDetailHandler) GetTaskDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.detailService.Get(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	assignees, err := h.detailService.Assignees(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.ToTaskDetailDTO(*detail, assignees))
}

// ListByTask returns the details of a task; empty when the task has none
func (h *TaskDetailHandler) ListByTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	details, err := h.detailService.ListByTask(taskID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.ToTaskDetailDTOs(details))
}

// ListByUser returns the details the user in the path is assigned to
func (h *TaskDetailHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	details, err := h.detailService.ListAssignedTo(userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.ToTaskDetailDTOs(details))
}

func (h *TaskDetailHandler) CreateTaskDetail(c *gin.Context) {
	type CreateTaskDetailRequest struct {
		TaskID      uint64   `json:"task_id" binding:"required"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Status      string   `json:"status"`
		Assignees   []string `json:"assignees"`
	}

	var req CreateTaskDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	detail, assignees, err := h.detailService.Create(services.CreateTaskDetailInput{
		TaskID:      req.TaskID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Assignees:   req.Assignees,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusCreated, "Task detail created successfully", dto.ToTaskDetailDTO(*detail, assignees))
}

// UpdateTaskDetail applies a partial update; assignees, when present, replace
// the current list
func (h *TaskDetailHandler) UpdateTaskDetail(c *gin.Context) {
	type UpdateTaskDetailRequest struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Status      *string   `json:"status"`
		Assignees   *[]string `json:"assignees"`
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	detail, err := h.detailService.Update(id, services.TaskDetailPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Assignees:   req.Assignees,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	h.respondWithAssignees(c, "Task detail updated successfully", detail.ID)
}

func (h *TaskDetailHandler) UpdateStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status string `json:"status"`
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.detailService.UpdateStatus(id, req.Status); err != nil {
		apierrors.Respond(c, err)
		return
	}
	h.respondWithAssignees(c, "Status updated successfully", id)
}

func (h *TaskDetailHandler) DeleteTaskDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.detailService.Delete(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	if !deleted {
		apierrors.Respond(c, apierrors.NotFound("task detail", id))
		return
	}

	dto.Respond(c, http.StatusOK, "Task detail deleted successfully", nil)
}

// ListAssignees returns the users assigned to a task detail
func (h *TaskDetailHandler) ListAssignees(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	users, err := h.detailService.Assignees(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.ToAssigneeDTOs(users))
}

func (h *TaskDetailHandler) respondWithAssignees(c *gin.Context, message string, id uint64) {
	detail, err := h.detailService.Get(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	assignees, err := h.detailService.Assignees(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	dto.Respond(c, http.StatusOK, message, dto.ToTaskDetailDTO(*detail, assignees))
}
