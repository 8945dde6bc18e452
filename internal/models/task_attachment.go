package models

import "time"

type TaskAttachment struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	TaskID     uint64    `gorm:"not null" json:"task_id"`
	FilePath   string    `gorm:"type:varchar(255);not null" json:"file_path"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	// Relations
	Task *Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}
