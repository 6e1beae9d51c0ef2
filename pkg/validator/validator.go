package validator

import "github.com/go-playground/validator/v10"

// Validator is a validator that validates the given struct.
type Validator interface {
	// Validate validates the given struct
	Validate(s any) error
}

type DefaultValidator struct {
	v *validator.Validate
}

// NewDefaultValidator creates a new default validator.
func NewDefaultValidator() *DefaultValidator {
	return &DefaultValidator{v: validator.New()}
}

func (v DefaultValidator) Validate(s any) error {
	return v.v.Struct(s)
}
