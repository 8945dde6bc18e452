package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-task-api/internal/constants"
)

// PaginationParams is a normalized page request. Page is 1-based.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// NewPaginationParams clamps page and limit into range and derives the offset.
// Out-of-range limits fall back to the default page size.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// GetPaginationParams reads the page and limit query parameters
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return NewPaginationParams(page, limit)
}

// TotalPages is the number of pages needed for total rows.
func (p PaginationParams) TotalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
