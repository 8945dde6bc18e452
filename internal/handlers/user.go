package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-task-api/internal/constants"
	"github.com/yukikurage/intern-task-api/internal/dto"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/middleware"
	"github.com/yukikurage/intern-task-api/internal/services"
	"github.com/yukikurage/intern-task-api/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns a page of users
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.List(params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.ToUserListResponse(users, params, total))
}

// GetUser returns a user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.ToUserDTO(*user))
}

// CreateUser lets an admin create a user with any role
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req userRequest
	if !bindBody(c, &req) {
		return
	}

	user, err := h.userService.Create(req.input())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusCreated, "User created successfully", dto.ToUserDTO(*user))
}

// UpdateUser applies a partial update. Multipart requests may carry avatar and
// cv files.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Username   *string `json:"username" form:"username"`
		Email      *string `json:"email" form:"email"`
		Password   *string `json:"password" form:"password"`
		BirthYear  *int    `json:"birth_year" form:"birth_year"`
		Phone      *string `json:"phone" form:"phone"`
		Gender     *string `json:"gender" form:"gender"`
		Avatar     *string `json:"avatar" form:"avatar"`
		StartDate  *string `json:"start_date" form:"start_date"`
		CVLink     *string `json:"cv_link" form:"cv_link"`
		Role       *string `json:"role" form:"role"`
		IsVerified *bool   `json:"is_verified" form:"is_verified"`
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, exists := middleware.GetUser(c)
	if !exists {
		apierrors.RespondUnauthorized(c, "Not authenticated")
		return
	}

	var req UpdateUserRequest
	if !bindBody(c, &req) {
		return
	}

	patch := services.UserPatch{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		BirthYear:  req.BirthYear,
		Phone:      req.Phone,
		Gender:     req.Gender,
		Avatar:     req.Avatar,
		StartDate:  req.StartDate,
		CVLink:     req.CVLink,
		Role:       req.Role,
		IsVerified: req.IsVerified,
	}
	if err := h.userService.AuthorizeUpdate(actor, id, patch); err != nil {
		apierrors.Respond(c, err)
		return
	}

	uploads := services.UserUploads{
		Avatar: formFile(c, constants.FormFieldAvatar),
		CV:     formFile(c, constants.FormFieldCV),
	}

	user, err := h.userService.Update(id, patch, uploads)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "User updated successfully", dto.ToUserDTO(*user))
}

// DeleteUser hard deletes a user
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.userService.Delete(id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	if !deleted {
		apierrors.Respond(c, apierrors.NotFound("user", id))
		return
	}

	dto.Respond(c, http.StatusOK, "User deleted successfully", nil)
}
