package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ktozkim/watchdog/internal/domain"
)

// AppValidator plugs go-playground/validator into echo's c.Validate.
type AppValidator struct {
	validate *validator.Validate
}

// NewAppValidator creates a new AppValidator.
func NewAppValidator() *AppValidator {
	return &AppValidator{validate: validator.New()}
}

// Validate checks a bound request struct against its validate tags. The first
// failing field is reported as a domain.ValidationError so the error handler
// renders it as a field error in the response envelope.
func (v *AppValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &domain.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("does not satisfy the '%s' rule", fe.Tag()),
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}
