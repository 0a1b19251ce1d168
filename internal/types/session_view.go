package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// SessionView session view
type SessionView struct {

	// Base58 address of the connected account
	Address string `json:"address,omitempty"`

	// Balance of the connected account in lamports, 0 while disconnected
	// Required: true
	// Minimum: 0
	BalanceLamports *int64 `json:"balanceLamports"`

	// Balance of the connected account in SOL, formatted for display
	// Required: true
	BalanceSol *string `json:"balanceSol"`

	// Whether a wallet account is connected
	// Required: true
	Connected *bool `json:"connected"`

	// Account label as reported by the wallet
	Label string `json:"label,omitempty"`

	// Cluster the session is bound to
	// Required: true
	Cluster *string `json:"cluster"`
}

// Validate validates this session view
func (m *SessionView) Validate(_ strfmt.Registry) error {
	var res []error

	if err := m.validateBalanceLamports(); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("balanceSol", "body", m.BalanceSol); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("connected", "body", m.Connected); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("cluster", "body", m.Cluster); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *SessionView) validateBalanceLamports() error {
	if err := validate.Required("balanceLamports", "body", m.BalanceLamports); err != nil {
		return err
	}

	if err := validate.MinimumInt("balanceLamports", "body", *m.BalanceLamports, 0, false); err != nil {
		return err
	}

	return nil
}
