package validator

import (
	"errors"
	"fmt"
	"strings"

	"glowbook/pkg/logger"
	"glowbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CartValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCartValidator(log *logger.Logger) *CartValidator {
	return &CartValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *CartValidator) ValidateItem(item *model.CartItem) error {
	if err := v.validate.Struct(item); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	// Struct tags cannot see inside decimal.Decimal.
	if item.UnitPrice.IsNegative() {
		return ValidationErrors{
			ValidationError{
				Field:   "UnitPrice",
				Message: "unit_price cannot be negative",
			},
		}
	}

	return nil
}

func (v *CartValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
