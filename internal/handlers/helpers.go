package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
)

// parseIDParam reads a positive integer path parameter, answering 400 when it
// is malformed.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.NewAPIErrorWithDetails(apierrors.ErrCodeInvalidInput, "Invalid "+name, map[string]string{"field": name}))
		return 0, false
	}
	return id, true
}

// bindBody binds a JSON or form body, answering 400 on failure.
func bindBody(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formFiles returns the files of a multipart field, or nil for other bodies.
func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	if !isMultipart(c) {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

func formFile(c *gin.Context, field string) *multipart.FileHeader {
	files := formFiles(c, field)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
