package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "travelblog/internal/errors"
	"travelblog/internal/model"
)

// NewValidator returns a validator that reports json field names and knows
// the notblank and traveltype tags.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("traveltype", func(fl validator.FieldLevel) bool {
		return model.TravelType(fl.Field().String()).Valid()
	})
	return v
}

// TranslateValidation turns validator output into domain validation errors.
// The first failing field wins.
func TranslateValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "traveltype":
		return apperrors.ErrInvalidTravelType
	case "required", "notblank":
		return apperrors.NewValidationError(fe.Field(), "is required")
	case "email":
		return apperrors.NewValidationError(fe.Field(), "must be a valid email address")
	case "url", "http_url":
		return apperrors.NewValidationError(fe.Field(), "must be an absolute http(s) URL")
	case "min":
		return apperrors.NewValidationError(fe.Field(), "must be at least "+fe.Param()+" characters")
	case "max":
		return apperrors.NewValidationError(fe.Field(), "must be at most "+fe.Param()+" characters")
	default:
		return apperrors.NewValidationError(fe.Field(), "is invalid")
	}
}
