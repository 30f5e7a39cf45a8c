package model

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"Tuder/core/apperr"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	alnumSpace = regexp.MustCompile(`^[a-zA-Z0-9 ]*$`)
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("alnumspace", func(fl validator.FieldLevel) bool {
			return alnumSpace.MatchString(fl.Field().String())
		})
		// report json names so messages match the request fields
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks v against its validate tags and returns an InvalidInput
// error naming the first failing field.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.InvalidInput("invalid request: %v", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperr.InvalidInput("%s is required", fe.Field())
	case "min":
		return apperr.InvalidInput("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return apperr.InvalidInput("%s must be at most %s characters", fe.Field(), fe.Param())
	case "alnumspace":
		return apperr.InvalidInput("%s may only contain letters, digits and spaces", fe.Field())
	case "alphanum":
		return apperr.InvalidInput("%s may only contain letters and digits", fe.Field())
	case "email":
		return apperr.InvalidInput("%s must be a valid email address", fe.Field())
	default:
		return apperr.InvalidInput("%s is invalid", fe.Field())
	}
}
