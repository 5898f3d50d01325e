package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps a single validator instance shared by all handlers.
type CustomValidator struct {
	validate *validator.Validate
}

var (
	validatorOnce sync.Once
	instance      *CustomValidator
)

// GetValidator returns the process-wide request validator.
func GetValidator() *CustomValidator {
	validatorOnce.Do(func() {
		instance = &CustomValidator{validate: validator.New()}
	})
	return instance
}

// Validate checks struct tags on a request body.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}
