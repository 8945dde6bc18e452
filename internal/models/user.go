package models

import "time"

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	BirthYear    *int      `json:"birth_year"`
	Phone        *string   `gorm:"type:varchar(20)" json:"phone"`
	Gender       Gender    `gorm:"type:varchar(10);not null;default:'Male'" json:"gender"`
	Avatar       *string   `gorm:"type:varchar(255)" json:"avatar"`
	StartDate    time.Time `gorm:"type:date;not null" json:"start_date"`
	CVLink       *string   `gorm:"type:varchar(255)" json:"cv_link"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'INTERN'" json:"role"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
