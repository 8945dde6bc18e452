package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/intern-task-api/internal/utils"
)

// Paginate applies offset and limit. A zero limit leaves the query unbounded.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// NewestFirst orders by creation time, breaking ties on id so pages are stable.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// OldestFirst orders by primary key.
func OldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
