package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
	})
	return instance
}

// Messages maps "Field.tag" to the text shown when that rule fails.
type Messages map[string]string

// First validates s using its `validate` tags and returns only the first
// violated rule, in struct field order, as an apperrors validation error.
// Rules without an entry in messages fall back to a generic text.
func First(s interface{}, messages Messages) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}

	fe := verrs[0]
	msg, ok := messages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return apperrors.NewValidationError(fe.Field(), msg)
}
