package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

const (
	TransactionResultOperationMemo    string = "memo"
	TransactionResultOperationAirdrop string = "airdrop"

	TransactionResultCommitmentProcessed string = "processed"
	TransactionResultCommitmentConfirmed string = "confirmed"
	TransactionResultCommitmentFinalized string = "finalized"
)

var (
	transactionResultOperationEnum  = []interface{}{TransactionResultOperationMemo, TransactionResultOperationAirdrop}
	transactionResultCommitmentEnum = []interface{}{
		TransactionResultCommitmentProcessed,
		TransactionResultCommitmentConfirmed,
		TransactionResultCommitmentFinalized,
	}
)

// TransactionResult transaction result
type TransactionResult struct {

	// Balance of the connected account in lamports after the operation.
	// Omitted when the follow-up balance refresh failed.
	BalanceLamports *int64 `json:"balanceLamports,omitempty"`

	// Commitment level the transaction was confirmed at
	// Required: true
	// Enum: [processed confirmed finalized]
	Commitment *string `json:"commitment"`

	// Block explorer link for the transaction
	// Required: true
	ExplorerURL *string `json:"explorerUrl"`

	// Operation that was executed
	// Required: true
	// Enum: [memo airdrop]
	Operation *string `json:"operation"`

	// Base58 transaction signature
	// Required: true
	// Min Length: 1
	Signature *string `json:"signature"`

	// Slot the transaction landed in
	// Minimum: 0
	Slot int64 `json:"slot,omitempty"`

	// Time from submission until confirmation in milliseconds
	TookMs int64 `json:"tookMs,omitempty"`
}

// Validate validates this transaction result
func (m *TransactionResult) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("commitment", "body", m.Commitment); err != nil {
		res = append(res, err)
	} else if err := validate.EnumCase("commitment", "body", *m.Commitment, transactionResultCommitmentEnum, true); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("explorerUrl", "body", m.ExplorerURL); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("operation", "body", m.Operation); err != nil {
		res = append(res, err)
	} else if err := validate.EnumCase("operation", "body", *m.Operation, transactionResultOperationEnum, true); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("signature", "body", m.Signature); err != nil {
		res = append(res, err)
	} else if err := validate.MinLength("signature", "body", swag.StringValue(m.Signature), 1); err != nil {
		res = append(res, err)
	}

	if err := validate.MinimumInt("slot", "body", m.Slot, 0, false); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
