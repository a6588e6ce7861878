package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared struct validator for request DTOs. Field
// limits live in the struct tags next to each DTO.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validationResponse carries the error summary plus one entry per
// invalid field, so clients can surface every failure at once.
type validationResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

// writeValidationError sends a 400 listing every invalid field. The
// first message doubles as the error summary.
func writeValidationError(w http.ResponseWriter, msgs ...string) {
	writeJSON(w, http.StatusBadRequest, validationResponse{Error: msgs[0], Fields: msgs})
}

// checkStruct runs struct validation and writes a 400 listing all
// failures. Returns false if the request was rejected.
func checkStruct(w http.ResponseWriter, v any) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, fe := range verrs {
			msgs[i] = validationMessage(fe)
		}
		writeValidationError(w, msgs...)
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid request")
	return false
}

// validationMessage turns a validator failure into a readable message.
func validationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}
