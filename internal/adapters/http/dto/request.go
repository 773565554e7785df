package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen11/go-todo-service/internal/domain"
)

// TodoRequest is the JSON body accepted by both create and update. Update
// replaces every mutable field, so an omitted description clears it.
//
// The limits mirror todo.TitleMinLength, todo.TitleMaxLength and
// todo.DescriptionMaxLength.
type TodoRequest struct {
	Title       string  `json:"title"                 validate:"required,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate trims the title and checks both fields against their limits.
// Failures are reported as a *domain.ValidationError keyed by JSON field
// name.
func (r *TodoRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating todo request: %w", err)
	}

	var fe domain.FieldErrors
	for _, v := range verrs {
		fe.Add(v.Field(), fieldMessage(v))
	}
	return fe.Err()
}

func fieldMessage(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return domain.MsgRequired
	case "min":
		return fmt.Sprintf("must be at least %s characters", v.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", v.Param())
	default:
		return "is invalid"
	}
}
