package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/husnhira/storefront/internal/shared/errors"
)

var (
	mobileRule   = regexp.MustCompile(`^\d{10}$`)
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the storefront binding rules on gin's validator
// and reports field errors under their JSON names. Safe to call repeatedly.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		registerErr = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return mobileRule.MatchString(strings.TrimSpace(fl.Field().String()))
		})
	})
	return registerErr
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// BindingProblem turns a ShouldBind failure into a 400 problem. Field rule
// violations are listed under the "fields" extension.
func BindingProblem(err error) apierrors.ProblemDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.ErrBadRequest.WithMsg("Malformed request body")
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apierrors.NewValidationProblem(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "mobile":
		return fmt.Sprintf("%s must be 10 digits", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
