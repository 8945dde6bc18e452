package services

import (
	"errors"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/yukikurage/intern-task-api/internal/constants"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/models"
	"github.com/yukikurage/intern-task-api/internal/repository"
	"github.com/yukikurage/intern-task-api/internal/storage"
	"github.com/yukikurage/intern-task-api/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService manages user records and password hashing.
type UserService struct {
	store    repository.Store
	uploads  storage.Uploader
	log      *zap.Logger
	hashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserService creates a new UserService
func NewUserService(store repository.Store, uploads storage.Uploader, log *zap.Logger) *UserService {
	return &UserService{
		store:    store,
		uploads:  uploads,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

// CreateUserInput represents the fields accepted when creating a user.
// Role and Gender are parsed case-insensitively; empty values take defaults.
type CreateUserInput struct {
	Username   string  `json:"username" validate:"required,max=255"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Password   string  `json:"password" validate:"required,min=6,max=72"`
	BirthYear  *int    `json:"birth_year"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Gender     string  `json:"gender"`
	Avatar     *string `json:"avatar"`
	StartDate  string  `json:"start_date" validate:"required"`
	CVLink     *string `json:"cv_link"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"is_verified"`
}

// UserPatch lists the fields an update may change. Nil means unchanged.
type UserPatch struct {
	Username   *string `json:"username" validate:"omitempty,min=1,max=255"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Password   *string `json:"password" validate:"omitempty,min=6,max=72"`
	BirthYear  *int    `json:"birth_year"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Gender     *string `json:"gender"`
	Avatar     *string `json:"avatar"`
	StartDate  *string `json:"start_date"`
	CVLink     *string `json:"cv_link"`
	Role       *string `json:"role"`
	IsVerified *bool   `json:"is_verified"`
}

// RequiresAdmin reports whether the patch touches privileged fields.
func (p UserPatch) RequiresAdmin() bool {
	return p.Role != nil || p.IsVerified != nil
}

// UserUploads carries optional files sent with an update. A file replaces the
// matching patch field.
type UserUploads struct {
	Avatar *multipart.FileHeader
	CV     *multipart.FileHeader
}

// List returns a page of users and the total count
func (s *UserService) List(params utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.store.Users().List(params)
	if err != nil {
		return nil, 0, storeError("list", entityUser, err)
	}
	return users, total, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(id uint64) (*models.User, error) {
	user, err := s.store.Users().FindByID(id)
	if err != nil {
		return nil, lookupError(entityUser, id, err)
	}
	return user, nil
}

// VerifyCredentials looks the user up by email and compares the password with
// the stored bcrypt hash. It never reports success without a user.
func (s *UserService) VerifyCredentials(email, password string) (bool, *models.User, error) {
	user, err := s.store.Users().FindByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Compare against a throwaway hash so unknown emails cost the same.
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return false, nil, nil
		}
		return false, nil, storeError("find", entityUser, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil, nil
	}
	return true, user, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), s.hashCost)
	})
	return s.dummyHash
}

// Create validates the input, hashes the password and persists the user.
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.StartDate = strings.TrimSpace(input.StartDate)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	username, email := input.Username, input.Email

	startDate, err := utils.ParseISODate(input.StartDate)
	if err != nil {
		return nil, apierrors.Validation("start_date", "must be an ISO-8601 date")
	}

	gender := models.GenderMale
	if strings.TrimSpace(input.Gender) != "" {
		if gender, err = models.ParseGender(input.Gender); err != nil {
			return nil, apierrors.Validation("gender", err.Error())
		}
	}

	role := models.RoleIntern
	if strings.TrimSpace(input.Role) != "" {
		if role, err = models.ParseUserRole(input.Role); err != nil {
			return nil, apierrors.Validation("role", err.Error())
		}
	}

	if err := s.ensureUnique(0, username, email); err != nil {
		return nil, err
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		BirthYear:    input.BirthYear,
		Phone:        input.Phone,
		Gender:       gender,
		Avatar:       input.Avatar,
		StartDate:    startDate,
		CVLink:       input.CVLink,
		Role:         role,
		IsVerified:   input.IsVerified,
	}

	if err := s.store.Users().Create(user); err != nil {
		return nil, storeError("create", entityUser, err)
	}

	s.log.Info("user created", zap.Uint64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// AuthorizeUpdate checks that actor may apply patch to the user with targetID.
func (s *UserService) AuthorizeUpdate(actor *models.User, targetID uint64, patch UserPatch) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	if actor.ID != targetID {
		return apierrors.Forbidden("You can only update your own profile")
	}
	if patch.RequiresAdmin() {
		return apierrors.Forbidden("Admin privileges required to change role or verification")
	}
	return nil
}

// Update applies a partial update. Uploaded files are stored first and take
// precedence over the avatar and cv_link fields of the patch.
func (s *UserService) Update(id uint64, patch UserPatch, uploads UserUploads) (*models.User, error) {
	user, err := s.store.Users().FindByID(id)
	if err != nil {
		return nil, lookupError(entityUser, id, err)
	}

	if err := s.applyPatch(user, patch); err != nil {
		return nil, err
	}

	replaced := replacedUploads(user, uploads)
	stored, err := s.storeUploads(user, uploads)
	if err != nil {
		return nil, err
	}

	if err := s.store.Users().Update(user); err != nil {
		for _, location := range stored {
			_ = s.uploads.Remove(location)
		}
		return nil, storeError("update", entityUser, err)
	}

	for _, location := range replaced {
		if err := s.uploads.Remove(location); err != nil {
			s.log.Warn("failed to remove replaced upload", zap.String("location", location), zap.Error(err))
		}
	}
	return user, nil
}

// replacedUploads lists the stored avatar and CV files an upload will replace.
// Values that do not point into the upload directories are external links.
func replacedUploads(user *models.User, uploads UserUploads) []string {
	var locations []string
	if uploads.Avatar != nil && isStoredIn(user.Avatar, constants.UploadDirAvatars) {
		locations = append(locations, *user.Avatar)
	}
	if uploads.CV != nil && isStoredIn(user.CVLink, constants.UploadDirCVs) {
		locations = append(locations, *user.CVLink)
	}
	return locations
}

func isStoredIn(location *string, dir string) bool {
	return location != nil && strings.HasPrefix(*location, dir+"/")
}

func (s *UserService) applyPatch(user *models.User, patch UserPatch) error {
	patch.Username = trimmed(patch.Username)
	patch.Email = trimmed(patch.Email)
	if err := validateInput(patch); err != nil {
		return err
	}

	var err error
	if patch.Username != nil {
		username := *patch.Username
		if username != user.Username {
			if err := s.ensureUnique(user.ID, username, ""); err != nil {
				return err
			}
		}
		user.Username = username
	}
	if patch.Email != nil {
		email := *patch.Email
		if email != user.Email {
			if err := s.ensureUnique(user.ID, "", email); err != nil {
				return err
			}
		}
		user.Email = email
	}
	if patch.Password != nil {
		if user.PasswordHash, err = s.hash(*patch.Password); err != nil {
			return err
		}
	}
	if patch.BirthYear != nil {
		user.BirthYear = patch.BirthYear
	}
	if patch.Phone != nil {
		user.Phone = patch.Phone
	}
	if patch.Gender != nil {
		if user.Gender, err = models.ParseGender(*patch.Gender); err != nil {
			return apierrors.Validation("gender", err.Error())
		}
	}
	if patch.Avatar != nil {
		user.Avatar = patch.Avatar
	}
	if patch.StartDate != nil {
		if user.StartDate, err = utils.ParseISODate(*patch.StartDate); err != nil {
			return apierrors.Validation("start_date", "must be an ISO-8601 date")
		}
	}
	if patch.CVLink != nil {
		user.CVLink = patch.CVLink
	}
	if patch.Role != nil {
		if user.Role, err = models.ParseUserRole(*patch.Role); err != nil {
			return apierrors.Validation("role", err.Error())
		}
	}
	if patch.IsVerified != nil {
		user.IsVerified = *patch.IsVerified
	}
	return nil
}

func (s *UserService) storeUploads(user *models.User, uploads UserUploads) ([]string, error) {
	var stored []string

	save := func(fh *multipart.FileHeader, destination string) (*string, error) {
		locations, err := s.uploads.Save([]*multipart.FileHeader{fh}, destination)
		if err != nil {
			for _, location := range stored {
				_ = s.uploads.Remove(location)
			}
			return nil, apierrors.StorageFailure("store", "upload", err)
		}
		stored = append(stored, locations[0])
		return &locations[0], nil
	}

	if uploads.Avatar != nil {
		location, err := save(uploads.Avatar, constants.UploadDirAvatars)
		if err != nil {
			return nil, err
		}
		user.Avatar = location
	}
	if uploads.CV != nil {
		location, err := save(uploads.CV, constants.UploadDirCVs)
		if err != nil {
			return nil, err
		}
		user.CVLink = location
	}
	return stored, nil
}

// Delete hard deletes a user. It returns false when the user does not exist.
func (s *UserService) Delete(id uint64) (bool, error) {
	deleted, err := s.store.Users().Delete(id)
	if err != nil {
		return false, storeError("delete", entityUser, err)
	}
	if deleted {
		s.log.Info("user deleted", zap.Uint64("user_id", id))
	}
	return deleted, nil
}

// ensureUnique rejects a username or email already held by another user.
// Empty values are not checked.
func (s *UserService) ensureUnique(selfID uint64, username, email string) error {
	if username != "" {
		existing, err := s.store.Users().FindByUsername(username)
		switch {
		case err == nil && existing.ID != selfID:
			return apierrors.Conflict(entityUser, "Username already exists")
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return storeError("find", entityUser, err)
		}
	}
	if email != "" {
		existing, err := s.store.Users().FindByEmail(email)
		switch {
		case err == nil && existing.ID != selfID:
			return apierrors.Conflict(entityUser, "Email already registered")
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return storeError("find", entityUser, err)
		}
	}
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", apierrors.Validation("password", "could not be hashed")
	}
	return string(hashed), nil
}
