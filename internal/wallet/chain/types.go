package chain

import "github.com/pkg/errors"

// ErrUnknownCluster is returned for cluster names without a known endpoint.
var ErrUnknownCluster = errors.New("unknown cluster")

// Cluster identifies the ledger network a session is bound to.
type Cluster struct {
	// Name is what the signer and the explorer understand ("testnet", "devnet", ...).
	Name string
	// RPC is the JSON-RPC endpoint the ledger client talks to.
	RPC string
}
