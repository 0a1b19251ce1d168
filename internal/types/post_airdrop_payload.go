package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PostAirdropPayload post airdrop payload
type PostAirdropPayload struct {

	// Lamports to request from the faucet, defaults to one SOL
	// Minimum: 1
	// Maximum: 5000000000
	Lamports *int64 `json:"lamports,omitempty"`
}

// Validate validates this post airdrop payload
func (m *PostAirdropPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if err := m.validateLamports(); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *PostAirdropPayload) validateLamports() error {
	if m.Lamports == nil {
		return nil
	}

	if err := validate.MinimumInt("lamports", "body", *m.Lamports, 1, false); err != nil {
		return err
	}

	if err := validate.MaximumInt("lamports", "body", *m.Lamports, 5000000000, false); err != nil {
		return err
	}

	return nil
}
