package handler

import "github.com/go-playground/validator/v10"

// Validator adapts go-playground/validator to Echo's Validator interface.
// Handlers invoke it through c.Validate on bound request DTOs.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds the request validator installed on the Echo instance.
func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// Validate checks struct tags and returns the underlying validation error.
func (cv *Validator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
