package ginx

import (
	"errors"

	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(apperror.JSONFieldName)
	}
}

func asAppError(err error, target **apperror.Error) bool {
	return errors.As(err, target)
}

// wrapBindError keeps validator errors for field reporting and turns
// decoding failures into a plain ValidationError.
func wrapBindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return apperror.Validation("Invalid request body: " + err.Error())
}
