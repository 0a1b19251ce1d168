package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// PostMemoPayload post memo payload
type PostMemoPayload struct {

	// Memo text written to the ledger, defaults to the configured memo
	// Max Length: 512
	// Min Length: 1
	Message *string `json:"message,omitempty"`
}

// Validate validates this post memo payload
func (m *PostMemoPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if err := m.validateMessage(); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *PostMemoPayload) validateMessage() error {
	if m.Message == nil {
		return nil
	}

	if err := validate.MinLength("message", "body", swag.StringValue(m.Message), 1); err != nil {
		return err
	}

	if err := validate.MaxLength("message", "body", swag.StringValue(m.Message), 512); err != nil {
		return err
	}

	return nil
}
