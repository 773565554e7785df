package todo

import (
	"fmt"

	"github.com/jsamuelsen11/go-todo-service/internal/domain"
)

// Completion state conflicts. Both wrap domain.ErrConflict.
var (
	ErrAlreadyCompleted = fmt.Errorf("%w: todo is already completed", domain.ErrConflict)
	ErrNotCompleted     = fmt.Errorf("%w: todo is not completed", domain.ErrConflict)
)
