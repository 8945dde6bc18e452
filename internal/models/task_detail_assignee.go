package models

import "time"

// TaskDetailAssignee links a task detail to a user. The pair is not unique.
type TaskDetailAssignee struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	TaskDetailID uint64    `gorm:"not null" json:"task_detail_id"`
	UserID       uint64    `gorm:"not null" json:"user_id"`
	AssignedAt   time.Time `gorm:"not null" json:"assigned_at"`

	// Relations
	TaskDetail *TaskDetail `gorm:"foreignKey:TaskDetailID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	User       *User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}
