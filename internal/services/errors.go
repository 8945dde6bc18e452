package services

import (
	"errors"

	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/repository"
	"gorm.io/gorm"
)

const (
	entityUser       = "user"
	entityTask       = "task"
	entityTaskDetail = "task detail"
	entityAssignee   = "assignee"
	entityAttachment = "attachment"
)

// storeError converts a repository error into a domain error. Errors that
// already carry a kind pass through unchanged.
func storeError(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apierrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, repository.ErrForeignKeyViolation) {
		return apierrors.ConstraintViolation(op, entity, entity+" is still referenced by other records", err)
	}
	return apierrors.StorageFailure(op, entity, err)
}

// lookupError maps a missing row to NotFound and anything else to storeError.
func lookupError(entity string, key any, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierrors.NotFound(entity, key)
	}
	return storeError("find", entity, err)
}
