package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by the request types; validator caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of a chat request.
func (r *ChatRequest) Validate() error {
	return describe(validate.Struct(r))
}

// Validate checks the struct tags of an announcement.
func (a *Announcement) Validate() error {
	return describe(validate.Struct(a))
}

// describe flattens validator errors into a short client-facing message,
// e.g. "message is required" or "title exceeds 200 characters".
func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s exceeds %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
