package task

import (
	"time"
)

// Task represents a to-do item owned by a single user.
type Task struct {
	ID          string  `gorm:"primaryKey;type:text"`
	UserID      string  `gorm:"index;not null;type:text"`
	Title       string  `gorm:"not null;type:text"`
	Description *string `gorm:"type:text"`
	IsCompleted bool    `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
