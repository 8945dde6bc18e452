package services

import (
	"errors"

	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Unauthorized messages, in the order the checks run.
const (
	MsgTokenMissing = "Token is missing"
	MsgTokenInvalid = "Token is invalid"
	MsgTokenExpired = "Token has expired"
	MsgUserNotFound = "User not found"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	users  *UserService
	tokens *TokenService
	log    *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *UserService, tokens *TokenService, log *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Login verifies credentials and issues an access and a refresh token.
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	ok, user, err := s.users.VerifyCredentials(email, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Info("login rejected", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("login succeeded", zap.Uint64("user_id", user.ID))
	return &TokenPair{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Register creates a self-service account. The role is always INTERN and the
// account starts unverified regardless of the input.
func (s *AuthService) Register(input CreateUserInput) (*models.User, error) {
	input.Role = string(models.RoleIntern)
	input.IsVerified = false
	return s.users.Create(input)
}

// Authenticate verifies a token of the wanted type and resolves its user.
// Failures are Unauthorized errors with a message per failed check.
func (s *AuthService) Authenticate(token string, want TokenType) (*models.User, *Claims, error) {
	if token == "" {
		return nil, nil, apierrors.Unauthorized(MsgTokenMissing)
	}

	claims, err := s.tokens.VerifyType(token, want)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, nil, apierrors.Unauthorized(MsgTokenExpired)
		}
		return nil, nil, apierrors.Unauthorized(MsgTokenInvalid)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, apierrors.Unauthorized(MsgTokenInvalid)
	}

	user, err := s.users.store.Users().FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apierrors.Unauthorized(MsgUserNotFound)
		}
		return nil, nil, storeError("find", entityUser, err)
	}

	return user, claims, nil
}

// Refresh mints a new access token from a valid refresh token.
func (s *AuthService) Refresh(refreshToken string) (string, *models.User, error) {
	user, _, err := s.Authenticate(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", nil, err
	}

	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	return access, user, nil
}

// Validate reports the claims of a valid access token.
func (s *AuthService) Validate(token string) (*Claims, error) {
	_, claims, err := s.Authenticate(token, TokenTypeAccess)
	return claims, err
}
