package todo

import (
	"time"
)

// Priority bounds for a todo item.
const (
	MinPriority     = 1
	MaxPriority     = 4
	DefaultPriority = 2
)

// Todo represents an extended task with priority, due date and an
// optional category. It follows the same per-user isolation rules as Task.
type Todo struct {
	ID          string  `gorm:"primaryKey;type:text"`
	UserID      string  `gorm:"index;not null;type:text"`
	Title       string  `gorm:"not null;type:text"`
	Description *string `gorm:"type:text"`
	IsCompleted bool    `gorm:"not null;default:false"`
	Priority    int     `gorm:"not null;default:2"`
	DueDate     *time.Time
	CategoryID  *string `gorm:"index;type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Todo entity.
func (Todo) TableName() string {
	return "todos"
}

// Category groups todos for a single user. Names are unique per user.
type Category struct {
	ID        string  `gorm:"primaryKey;type:text"`
	UserID    string  `gorm:"uniqueIndex:idx_categories_user_name;not null;type:text"`
	Name      string  `gorm:"uniqueIndex:idx_categories_user_name;not null;type:text"`
	Color     *string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the Category entity.
func (Category) TableName() string {
	return "categories"
}
