package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected input field
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationErrors is returned when an input shape fails validation
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", strings.Join(fe.Loc, "."), fe.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// WithPrefix returns a copy whose locations start with prefix
func (e ValidationErrors) WithPrefix(prefix string) ValidationErrors {
	out := make(ValidationErrors, len(e))
	for i, fe := range e {
		out[i] = FieldError{Loc: append([]string{prefix}, fe.Loc...), Msg: fe.Msg, Type: fe.Type}
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of s and converts failures into ValidationErrors
func validateStruct(s any) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Loc: []string{}, Msg: err.Error(), Type: "value_error"}}
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fromValidatorError(fe))
	}
	return out
}

func fromValidatorError(fe validator.FieldError) FieldError {
	loc := []string{fe.Field()}
	switch fe.Tag() {
	case "required":
		return FieldError{Loc: loc, Msg: "Field required", Type: "missing"}
	case "gte":
		return FieldError{Loc: loc, Msg: "Input should be greater than or equal to " + fe.Param(), Type: "greater_than_equal"}
	case "min":
		return FieldError{Loc: loc, Msg: fmt.Sprintf("String should have at least %s character", fe.Param()), Type: "string_too_short"}
	}
	return FieldError{Loc: loc, Msg: fe.Error(), Type: fe.Tag()}
}

// DecodeJSON decodes a request body into dst, reporting malformed input as ValidationErrors
func DecodeJSON(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return ValidationErrors{{
				Loc:  []string{typeErr.Field},
				Msg:  fmt.Sprintf("Input should be a valid %s", typeErr.Type.String()),
				Type: typeErr.Type.Kind().String() + "_type",
			}}
		}
		return ValidationErrors{{Loc: []string{}, Msg: "JSON decode error: " + err.Error(), Type: "json_invalid"}}
	}
	return nil
}
