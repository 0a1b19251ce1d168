package chain

import (
	"net/url"
	"strings"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

var knownClusters = map[string]rpc.Cluster{
	rpc.TestNet.Name:     rpc.TestNet,
	rpc.DevNet.Name:      rpc.DevNet,
	rpc.MainNetBeta.Name: rpc.MainNetBeta,
	rpc.LocalNet.Name:    rpc.LocalNet,
}

// Resolve returns the cluster for name. rpcURL, when set, replaces the default
// endpoint but keeps the cluster name (e.g. a private testnet RPC provider).
func Resolve(name string, rpcURL string) (Cluster, error) {
	name = strings.TrimSpace(name)

	known, ok := knownClusters[name]
	if !ok {
		return Cluster{}, errors.Wrapf(ErrUnknownCluster, "cluster %q", name)
	}

	cluster := Cluster{
		Name: known.Name,
		RPC:  known.RPC,
	}

	rpcURL = strings.TrimSpace(rpcURL)
	if rpcURL != "" {
		if _, err := url.ParseRequestURI(rpcURL); err != nil {
			return Cluster{}, errors.Wrapf(err, "invalid RPC URL %q", rpcURL)
		}
		cluster.RPC = rpcURL
	}

	return cluster, nil
}

// ExplorerTxURL builds the block explorer link for a transaction signature.
func ExplorerTxURL(explorerBaseURL string, clusterName string, signature string) string {
	base := strings.TrimRight(explorerBaseURL, "/")

	query := url.Values{}
	if clusterName != "" && clusterName != rpc.MainNetBeta.Name {
		query.Set("cluster", clusterName)
	}

	link := base + "/tx/" + url.PathEscape(signature)
	if encoded := query.Encode(); encoded != "" {
		link += "?" + encoded
	}

	return link
}
