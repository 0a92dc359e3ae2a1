package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

type GistgrepValidator struct {
	v *validator.Validate
}

func NewValidator() *GistgrepValidator {
	v := validator.New()
	return &GistgrepValidator{v}
}

func (cv *GistgrepValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

func ValidationMessages(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	messages := make([]string, len(errs))
	for i, e := range errs {
		switch e.Tag() {
		case "required":
			messages[i] = e.Field() + " is missing"
		default:
			messages[i] = e.Field() + " is invalid"
		}
	}

	return strings.Join(messages, " ; ")
}
