package todo

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jsamuelsen11/go-todo-service/internal/domain"
)

// Field limits enforced by Validate.
const (
	TitleMinLength       = 2
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

// Todo is a task item that can be toggled between completed and not completed.
// Fields are unexported so state changes go through the methods below, which
// enforce the completion invariants.
type Todo struct {
	id          string
	title       string
	description *string
	completed   bool
}

// Primitives is the plain-data form of a Todo used by persistence and transport
// adapters. A nil Description means the todo has no description.
type Primitives struct {
	ID          string
	Title       string
	Description *string
	Completed   bool
}

// New creates a not-completed Todo with a freshly generated identifier. The
// title is stored without surrounding whitespace.
func New(title string, description *string) *Todo {
	return &Todo{
		id:          NewID(),
		title:       strings.TrimSpace(title),
		description: cloneString(description),
	}
}

// FromPrimitives reconstructs a Todo from its plain-data form without running
// any validation. Use it for data that has already been persisted.
func FromPrimitives(p Primitives) *Todo {
	return &Todo{
		id:          p.ID,
		title:       p.Title,
		description: cloneString(p.Description),
		completed:   p.Completed,
	}
}

// Primitives exports the Todo's current state.
func (t *Todo) Primitives() Primitives {
	return Primitives{
		ID:          t.id,
		Title:       t.title,
		Description: cloneString(t.description),
		Completed:   t.completed,
	}
}

// ID returns the todo's identifier.
func (t *Todo) ID() string { return t.id }

// Title returns the trimmed title.
func (t *Todo) Title() string { return t.title }

// Description returns a copy of the description, or nil when there is none.
func (t *Todo) Description() *string { return cloneString(t.description) }

// Completed reports whether the todo is completed.
func (t *Todo) Completed() bool { return t.completed }

// MarkAsCompleted sets completed to true. Returns ErrAlreadyCompleted and
// leaves the todo unchanged if it is already completed.
func (t *Todo) MarkAsCompleted() error {
	if t.completed {
		return ErrAlreadyCompleted
	}
	t.completed = true
	return nil
}

// MarkAsNotCompleted sets completed to false. Returns ErrNotCompleted and
// leaves the todo unchanged if it is not completed.
func (t *Todo) MarkAsNotCompleted() error {
	if !t.completed {
		return ErrNotCompleted
	}
	t.completed = false
	return nil
}

// Update replaces the mutable fields, trimming the title as New does. The
// completion state is not touched.
func (t *Todo) Update(title string, description *string) {
	t.title = strings.TrimSpace(title)
	t.description = cloneString(description)
}

// Validate checks the title and description against the field limits.
// Failures are reported as a *domain.ValidationError.
func (t *Todo) Validate() error {
	return ValidateFields(t.title, t.description)
}

// ValidateFields applies the Todo field limits to raw values. Titles are
// measured in runes after trimming surrounding whitespace, which is the form
// New and Update store.
func ValidateFields(title string, description *string) error {
	var fe domain.FieldErrors

	switch n := utf8.RuneCountInString(strings.TrimSpace(title)); {
	case n == 0:
		fe.Add("title", domain.MsgRequired)
	case n < TitleMinLength || n > TitleMaxLength:
		fe.Add("title", fmt.Sprintf("must be %d-%d characters, got %d", TitleMinLength, TitleMaxLength, n))
	}
	if description != nil {
		if n := utf8.RuneCountInString(*description); n > DescriptionMaxLength {
			fe.Add("description", fmt.Sprintf("must be at most %d characters, got %d", DescriptionMaxLength, n))
		}
	}

	return fe.Err()
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
