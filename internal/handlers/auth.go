package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-task-api/internal/constants"
	"github.com/yukikurage/intern-task-api/internal/dto"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/middleware"
	"github.com/yukikurage/intern-task-api/internal/services"
)

// CookieConfig controls the flags of the token cookies.
type CookieConfig struct {
	Secure bool
	Domain string
}

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	cookies     CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
	}
}

type userRequest struct {
	Username   string  `json:"username" form:"username"`
	Email      string  `json:"email" form:"email"`
	Password   string  `json:"password" form:"password"`
	BirthYear  *int    `json:"birth_year" form:"birth_year"`
	Phone      *string `json:"phone" form:"phone"`
	Gender     string  `json:"gender" form:"gender"`
	Avatar     *string `json:"avatar" form:"avatar"`
	StartDate  string  `json:"start_date" form:"start_date"`
	CVLink     *string `json:"cv_link" form:"cv_link"`
	Role       string  `json:"role" form:"role"`
	IsVerified bool    `json:"is_verified" form:"is_verified"`
}

func (r userRequest) input() services.CreateUserInput {
	return services.CreateUserInput{
		Username:   r.Username,
		Email:      r.Email,
		Password:   r.Password,
		BirthYear:  r.BirthYear,
		Phone:      r.Phone,
		Gender:     r.Gender,
		Avatar:     r.Avatar,
		StartDate:  r.StartDate,
		CVLink:     r.CVLink,
		Role:       r.Role,
		IsVerified: r.IsVerified,
	}
}

// Register creates a self-service INTERN account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req userRequest
	if !bindBody(c, &req) {
		return
	}

	user, err := h.authService.Register(req.input())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusCreated, "User registered successfully", dto.ToUserDTO(*user))
}

// Login authenticates a user and sets the token cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email and password are required")
		return
	}

	pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.InvalidCredentials(c)
			return
		}
		apierrors.Respond(c, err)
		return
	}

	tokens := h.authService.Tokens()
	h.setCookie(c, constants.AccessTokenCookieName, pair.AccessToken, tokens.AccessTTL())
	h.setCookie(c, constants.RefreshTokenCookieName, pair.RefreshToken, tokens.RefreshTTL())

	dto.Respond(c, http.StatusOK, "Login successful", dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(tokens.AccessTTL().Seconds()),
		User:         dto.ToUserDTO(*pair.User),
	})
}

// Refresh issues a new access token. The refresh token is read from the body
// first, then from its cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	type RefreshRequest struct {
		RefreshToken string `json:"refresh_token"`
	}

	var req RefreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(constants.RefreshTokenCookieName)
	}

	access, _, err := h.authService.Refresh(token)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	ttl := h.authService.Tokens().AccessTTL()
	h.setCookie(c, constants.AccessTokenCookieName, access, ttl)

	dto.Respond(c, http.StatusOK, "Token refreshed", dto.RefreshResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
	})
}

// Validate reports the claims of the presented access token.
func (h *AuthHandler) Validate(c *gin.Context) {
	claims, err := h.authService.Validate(middleware.ExtractToken(c, constants.AccessTokenCookieName))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	dto.Respond(c, http.StatusOK, "Token is valid", dto.ClaimsDTO{
		Sub:  claims.Subject,
		Role: claims.Role,
		Iat:  claims.IssuedAt.Unix(),
		Exp:  claims.ExpiresAt.Unix(),
	})
}

// Logout expires both token cookies. Tokens are stateless, so nothing is
// revoked server side.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearCookie(c, constants.AccessTokenCookieName)
	h.clearCookie(c, constants.RefreshTokenCookieName)

	dto.Respond(c, http.StatusOK, "Logged out successfully", nil)
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.RespondUnauthorized(c, "Not authenticated")
		return
	}

	dto.Respond(c, http.StatusOK, "", dto.ToUserDTO(*user))
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", h.cookies.Domain, h.cookies.Secure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
}
