// Package validator holds the process-wide validator instance used to
// check user intents before they reach the network.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

func GetValidator() *validator.Validate {
	return validate
}

// Check validates a struct against its validate tags.
func Check(s any) error {
	return validate.Struct(s)
}
