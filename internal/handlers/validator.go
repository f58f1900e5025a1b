package handlers

import "github.com/go-playground/validator/v10"

// StructValidator adapts go-playground/validator to fiber's StructValidator interface.
type StructValidator struct {
	validate *validator.Validate
}

func NewStructValidator() *StructValidator {
	return &StructValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *StructValidator) Validate(out any) error {
	return v.validate.Struct(out)
}
