package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	app_errors "mediai/backend/internal/errors"
)

// This file provides a singleton validator for API request bodies and the
// request DTOs it checks.

var (
	// validate holds the single instance of the validator.
	validate *validator.Validate
	// once ensures that the validator is initialized only one time.
	once sync.Once
)

// SendMessageRequest is the body of both the authenticated and the public
// send endpoints. Blank messages are rejected by the service.
type SendMessageRequest struct {
	Message string `json:"message" validate:"max=8000"`
}

// CreateConversationRequest is the optional body of the create endpoint.
type CreateConversationRequest struct {
	Title string `json:"title" validate:"max=255"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	FullName       string  `json:"full_name" validate:"max=255"`
	PhoneNumber    *string `json:"phone_number" validate:"omitempty,max=50"`
	Specialization *string `json:"specialization" validate:"omitempty,max=255"`
}

// UpdateUserStatusRequest toggles a user's active flag from the admin dashboard.
type UpdateUserStatusRequest struct {
	UserID   string `json:"userId" validate:"required"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

// getInstance uses sync.Once to safely initialize and return the validator singleton.
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// validateRequest checks payload against the rules in its validate tags and
// returns a wrapped app_errors.ErrValidation describing every failed field.
func validateRequest(payload any) error {
	v := getInstance()
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: an unexpected error occurred during validation: %s", app_errors.ErrValidation, err.Error())
	}

	var errorMessages []string
	for _, fieldErr := range validationErrors {
		// Example output: "Field 'Message' failed on the 'max' tag"
		errMsg := fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag())
		errorMessages = append(errorMessages, errMsg)
	}

	return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(errorMessages, "; "))
}

// decodeAndValidate combines decodeJSON and validateRequest.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return validateRequest(dst)
}
