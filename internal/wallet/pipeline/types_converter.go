package pipeline

import (
	"github.com/go-openapi/swag"

	"github/chapool/go-dapp/internal/types"
)

func (r *Result) ToTypes() *types.TransactionResult {
	out := &types.TransactionResult{
		Operation:   swag.String(r.Operation),
		Signature:   swag.String(r.Signature.String()),
		Commitment:  swag.String(string(r.Commitment)),
		Slot:        int64(r.Slot), //nolint:gosec // slots fit int64
		ExplorerURL: swag.String(r.ExplorerURL),
		TookMs:      r.Took.Milliseconds(),
	}

	if r.Balance != nil {
		out.BalanceLamports = swag.Int64(int64(*r.Balance)) //nolint:gosec // lamport supply fits int64
	}

	return out
}
