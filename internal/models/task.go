package models

import (
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusAssigned   TaskStatus = "Assigned"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// ParseTaskStatus accepts the canonical names and their snake_case aliases,
// case-insensitively.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assigned":
		return TaskStatusAssigned, nil
	case "inprogress", "in_progress", "in progress":
		return TaskStatusInProgress, nil
	case "completed":
		return TaskStatusCompleted, nil
	default:
		return "", fmt.Errorf("invalid status %q: must be one of Assigned, InProgress, Completed", s)
	}
}

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Code        string     `gorm:"type:varchar(50);not null" json:"code"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Deadline    time.Time  `gorm:"not null" json:"deadline"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'Assigned'" json:"status"`
	CreatedBy   uint64     `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Creator *User `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}
