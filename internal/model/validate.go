package model

import (
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(apperror.JSONFieldName)
	return v
}

// Validate checks s against its validate tags. row tags every field error
// with the file line it came from and is zero for non-file input.
func Validate(msg string, row int, s any) error {
	if err := validate.Struct(s); err != nil {
		return apperror.FromValidator(msg, row, err)
	}
	return nil
}
