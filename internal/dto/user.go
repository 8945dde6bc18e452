package dto

import (
	"time"

	"github.com/yukikurage/intern-task-api/internal/models"
	"github.com/yukikurage/intern-task-api/internal/utils"
)

// UserDTO is the sanitized user projection; it never carries the password hash.
type UserDTO struct {
	ID         uint64          `json:"id"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	BirthYear  *int            `json:"birth_year"`
	Phone      *string         `json:"phone"`
	Gender     models.Gender   `json:"gender"`
	Avatar     *string         `json:"avatar"`
	StartDate  string          `json:"start_date"`
	CVLink     *string         `json:"cv_link"`
	Role       models.UserRole `json:"role"`
	IsVerified bool            `json:"is_verified"`
	CreatedAt  time.Time       `json:"created_at"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO `json:"users"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		BirthYear:  user.BirthYear,
		Phone:      user.Phone,
		Gender:     user.Gender,
		Avatar:     user.Avatar,
		StartDate:  user.StartDate.Format("2006-01-02"),
		CVLink:     user.CVLink,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

func ToUserListResponse(users []models.User, params utils.PaginationParams, total int64) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, u := range users {
		items[i] = ToUserDTO(u)
	}
	return UserListResponse{
		Users:      items,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalCount: total,
		TotalPages: params.TotalPages(total),
	}
}

// LoginResponse is returned by login; tokens are also set as cookies.
type LoginResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	TokenType    string  `json:"token_type"`
	ExpiresIn    int64   `json:"expires_in"`
	User         UserDTO `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ClaimsDTO exposes the verified claims of a token.
type ClaimsDTO struct {
	Sub  string          `json:"sub"`
	Role models.UserRole `json:"role"`
	Iat  int64           `json:"iat"`
	Exp  int64           `json:"exp"`
}
