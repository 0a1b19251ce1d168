package balance

import (
	"github.com/go-openapi/swag"

	"github/chapool/go-dapp/internal/types"
	"github/chapool/go-dapp/internal/wallet/session"
)

// ToSessionView renders a store snapshot with its balance in both units.
func ToSessionView(snapshot session.Snapshot, cluster string) *types.SessionView {
	view := &types.SessionView{
		Connected:       swag.Bool(snapshot.Connected()),
		Cluster:         swag.String(cluster),
		BalanceLamports: swag.Int64(int64(snapshot.Balance)), //nolint:gosec // lamport supply fits int64
		BalanceSol:      swag.String(FormatSOL(snapshot.Balance)),
	}

	if snapshot.Account != nil {
		view.Address = snapshot.Account.Address.String()
		view.Label = snapshot.Account.Label
	}

	return view
}
