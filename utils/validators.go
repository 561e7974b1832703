package utils

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const MinPasswordLength = 6

var Validate *validator.Validate

func init() {
	InitValidator()
}

// InitValidator builds the shared validator and registers custom rules on gin's binding engine.
func InitValidator() {
	Validate = validator.New()
	RegisterCustomValidators(Validate)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterCustomValidators(v)
	}
}

func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("notblank", ValidateNotBlankRule)
}

// ValidateNotBlankRule rejects strings that are empty after trimming whitespace.
func ValidateNotBlankRule(fl validator.FieldLevel) bool {
	return !IsBlank(fl.Field().String())
}

func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func ValidateEmail(email string) bool {
	return Validate.Var(email, "required,email") == nil
}

func ValidatePassword(password string) bool {
	return len(password) >= MinPasswordLength
}
