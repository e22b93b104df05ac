package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	customError "github.com/segyhp/circulation-desk/pkg/errors"
)

var validate = validator.New()

type addBookRequest struct {
	Author     string `validate:"required"`
	Title      string `validate:"required"`
	CallNumber string `validate:"required"`
}

type addMemberRequest struct {
	FirstName    string `validate:"required"`
	LastName     string `validate:"required"`
	ContactPhone string `validate:"required"`
	EmailAddress string `validate:"required"`
}

// validateRequest turns the first failed field into a ValidationError
func validateRequest(request any) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return customError.WrapValidation(fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return customError.NewBusinessError(customError.ErrCodeValidation, err.Error(), customError.ErrValidation)
}
