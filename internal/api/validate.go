package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// checkPayload validates a decoded server payload against its struct tags.
// The backend is loosely typed, so shapes are verified once here instead of
// with field-presence checks scattered through state logic.
func checkPayload(payload any) error {
	if err := validate.Struct(payload); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// checkInput validates a locally built request payload before it is sent.
func checkInput(input any) error {
	if err := validate.Struct(input); err != nil {
		if typed := formatValidationErrors(err); typed != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, typed.Message()).WithDetails(typed.Details())
		}
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeDecode, "payload failed validation").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "payload failed validation")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
