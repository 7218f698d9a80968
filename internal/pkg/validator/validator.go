package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Letters and digits of any script, plus _ . @ + -.
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// Validate struct fields. Keys are json field names (with the path for nested
// elements), values are the failed rule with its parameter, e.g. "min=1".
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"non_field_errors": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range verrs {
		rule := err.Tag()
		if err.Param() != "" {
			rule += "=" + err.Param()
		}
		errors[fieldPath(err.Namespace())] = rule
	}
	return errors
}

// fieldPath drops the struct type prefix: "CreateRecipeRequest.ingredients[0].amount"
// becomes "ingredients[0].amount".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
