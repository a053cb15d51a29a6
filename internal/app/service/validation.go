package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskify/internal/common"
)

const (
	maxPasswordBytes = 72
	DefaultPageSize  = 100
	MaxPageSize      = 1000
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

	reservedUsernames = map[string]struct{}{
		"admin": {}, "administrator": {}, "root": {}, "user": {}, "test": {},
		"demo": {}, "guest": {}, "api": {}, "www": {}, "mail": {}, "email": {},
		"support": {}, "help": {}, "info": {}, "contact": {}, "null": {},
		"undefined": {}, "none": {}, "system": {}, "operator": {},
	}
)

// newValidator builds a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return usernamePattern.MatchString(s) && !strings.HasSuffix(s, "_") && !strings.HasSuffix(s, "-")
	})
	v.RegisterValidation("notreserved", func(fl validator.FieldLevel) bool {
		_, reserved := reservedUsernames[strings.ToLower(fl.Field().String())]
		return !reserved
	})
	v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return v
}

// validateStruct runs the struct tags of s and converts failures into a
// *common.ValidationError.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	out := &common.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, common.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		if isString {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be greater than or equal to " + fe.Param()
	case "max":
		if isString {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be less than or equal to " + fe.Param()
	case "email":
		return "value is not a valid email address"
	case "username":
		return "may only contain letters, numbers, underscores and hyphens, must start with a letter or number and cannot end with _ or -"
	case "notreserved":
		return "username is reserved and cannot be used"
	case "bcryptlen":
		return fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)
	case "eqfield":
		return "passwords do not match"
	}
	return "invalid value"
}
