package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var std = validator.New()

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in error details.
// - Registers the signup password policy under the "pwd" alias.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
	register(std)
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Signup password policy: at least 6 chars with upper, lower and a digit.
	v.RegisterAlias("pwd", "min=6,containsany=0123456789,containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ,containsany=abcdefghijklmnopqrstuvwxyz")
}

// ValidEmail reports whether s is a well-formed email address.
func ValidEmail(s string) bool {
	return std.Var(s, "required,email") == nil
}

// ValidPassword enforces the signup password policy: minimum 6 characters
// containing at least one uppercase letter, one lowercase letter and a digit.
func ValidPassword(s string) bool {
	if len(s) < 6 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// ToDetails converts binding errors into a field→message map for the error
// envelope.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = messageFor(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "pwd":
		return "must be at least 6 characters with an uppercase letter, a lowercase letter and a digit"
	case "min":
		return "must be at least " + fe.Param() + " characters long"
	case "max":
		return "must be at most " + fe.Param() + " characters long"
	case "containsany":
		return "must contain at least one of '" + fe.Param() + "'"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "alphanum":
		return "must contain alphanumeric characters only"
	default:
		if fe.Param() != "" {
			return "failed '" + fe.Tag() + "' check with parameter '" + fe.Param() + "'"
		}
		return "failed '" + fe.Tag() + "' check"
	}
}
