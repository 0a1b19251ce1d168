package types

import (
	"github.com/go-openapi/strfmt"
)

// GetSessionRouteParams binds the query of GET /api/v1/session
type GetSessionRouteParams struct {

	// Query the ledger for the current balance before answering
	Refresh *bool `query:"refresh"`
}

// NewGetSessionRouteParams creates a new GetSessionRouteParams object with the default values initialized.
func NewGetSessionRouteParams() GetSessionRouteParams {
	return GetSessionRouteParams{}
}

// Validate validates this get session route params
func (m *GetSessionRouteParams) Validate(_ strfmt.Registry) error {
	return nil
}
