package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation errors report JSON field names so 422 bodies use wire names.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

// bodyError is a request body that could not be decoded.
type bodyError struct {
	field   string
	message string
}

func (e *bodyError) Error() string { return e.field + ": " + e.message }

// bindJSON decodes and validates the request body into dst. An empty body is
// validated as an empty object so required fields are reported per field.
func bindJSON(c *gin.Context, dst interface{}) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return binding.Validator.ValidateStruct(dst)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &bodyError{field: field, message: fmt.Sprintf("The %s field must be a %s.", field, typeErr.Type.String())}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &bodyError{field: "body", message: "The request body must be valid JSON."}
	}
	return err
}

func validationMessages(errs validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = append(out[fe.Field()], validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf("The %s field must not be empty.", field)
		}
		return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field must match password.", field)
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}
