package api

import (
	"encoding/json" // Unmarshal type errors
	"errors"        // Error inspection
	"fmt"           // Message formatting
	"io"            // Empty body detection
	"reflect"       // Struct field tags
	"regexp"        // PIN pattern
	"strings"       // Tag and name handling
	"sync"          // One-time validator setup
	"unicode"       // Field name casing

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Gin request binding
	"github.com/go-playground/validator/v10" // Struct validation
)

var (
	pinPattern     = regexp.MustCompile(`^[0-9]{6}$`) // PINs are exactly six digits
	validatorsOnce sync.Once                          // Guards RegisterValidators
)

// RegisterValidators installs the custom binding rules and makes field errors use JSON names.
// Safe to call more than once.
func RegisterValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return // Not the default engine, nothing to configure
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0] // Drop options like omitempty
				if name == "-" {
					return "" // Field is never bound
				}
				if name != "" {
					return name
				}
			}
			return f.Name // Fall back to the Go name
		})
		_ = v.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
			return pinPattern.MatchString(fl.Field().String()) // Six digits
		})
	})
}

// bindJSON binds the request body into req. An empty body validates like an empty object.
func bindJSON(c *gin.Context, req any) error {
	err := c.ShouldBindJSON(req) // Decode and validate
	if errors.Is(err, io.EOF) {
		return binding.Validator.ValidateStruct(req) // Report missing fields instead of a decode error
	}
	return err
}

// label turns a JSON or Go field name into words: pin_code and PinCode both give "pin code"
func label(name string) string {
	if strings.Contains(name, "_") {
		return strings.ReplaceAll(name, "_", " ") // snake_case
	}
	var b strings.Builder
	var prev rune
	for _, r := range name {
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte(' ') // RecipientID gives "recipient id"
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}

// fieldMessage renders one validation failure
func fieldMessage(fe validator.FieldError) string {
	field := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "required_without":
		return fmt.Sprintf("The %s field is required when %s is not present.", field, label(fe.Param()))
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field must match %s.", field, label(fe.Param()))
	case "nefield":
		return fmt.Sprintf("The %s field and %s must be different.", field, label(fe.Param()))
	case "pin":
		return fmt.Sprintf("The %s field must be 6 digits.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field) // Rule without a dedicated message
	}
}

// fieldErrors converts a binding error into per-field messages
func fieldErrors(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs): // Failed binding rules
		for _, fe := range verrs {
			out[fe.Field()] = append(out[fe.Field()], fieldMessage(fe))
		}
	case errors.As(err, &typeErr) && typeErr.Field != "": // Wrong JSON type for a known field
		out[typeErr.Field] = []string{fmt.Sprintf("The %s field has an invalid type.", label(typeErr.Field))}
	default: // Malformed body
		out["body"] = []string{"The request body must be a valid JSON object."}
	}
	return out
}
