// Package model holds the gorm row types for the todo store.
package model

import (
	"time"

	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
)

// Todo is a row in the todos table.
type Todo struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	Title       string    `gorm:"type:varchar(100);not null"`
	Description *string   `gorm:"type:text"`
	Completed   bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;index:idx_todos_created_at"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName pins the table name regardless of gorm naming strategy.
func (Todo) TableName() string { return "todos" }

// FromDomain converts an entity to a row. Timestamps are left for gorm to
// manage.
func FromDomain(t *todo.Todo) Todo {
	p := t.Primitives()
	return Todo{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Completed:   p.Completed,
	}
}

// ToDomain converts a row back to an entity.
func (m Todo) ToDomain() *todo.Todo {
	return todo.FromPrimitives(todo.Primitives{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Completed:   m.Completed,
	})
}
