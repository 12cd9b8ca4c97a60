// Package validate decodes and validates JSON request bodies for the API
// handlers. Struct tags carry the validation rules.
package validate

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeJSON unmarshals the request body into dst and checks its validate
// tags. Unknown fields pass through untouched.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// Struct checks the validate tags on an already-decoded value.
func Struct(v interface{}) error {
	return validate.Struct(v)
}
