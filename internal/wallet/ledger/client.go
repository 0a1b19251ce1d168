package ledger

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github/chapool/go-dapp/internal/util"
	"github/chapool/go-dapp/internal/wallet/chain"
)

const (
	DefaultConfirmTimeout = 90 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
)

// RPCClient talks JSON-RPC to a single cluster endpoint chosen at construction.
type RPCClient struct {
	cluster        chain.Cluster
	rpc            *rpc.Client
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

var _ Client = (*RPCClient)(nil)

// NewRPCClient binds a client to cluster. Non-positive durations fall back to
// DefaultConfirmTimeout and DefaultPollInterval.
func NewRPCClient(cluster chain.Cluster, confirmTimeout time.Duration, pollInterval time.Duration) *RPCClient {
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	return &RPCClient{
		cluster:        cluster,
		rpc:            rpc.New(cluster.RPC),
		confirmTimeout: confirmTimeout,
		pollInterval:   pollInterval,
	}
}

func (c *RPCClient) Cluster() chain.Cluster {
	return c.cluster
}

// GetBalance reads at confirmed commitment so a refresh right after a confirmed
// memo already reflects its fee.
func (c *RPCClient) GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, &NetworkError{Op: "getBalance", Err: err}
	}

	return out.Value, nil
}

func (c *RPCClient) GetLatestBlockhash(ctx context.Context) (*Blockhash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, &NetworkError{Op: "getLatestBlockhash", Err: err}
	}
	if out == nil || out.Value == nil {
		return nil, &NetworkError{Op: "getLatestBlockhash", Err: errors.New("empty result")}
	}

	return &Blockhash{
		Hash:                 out.Value.Blockhash,
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
	}, nil
}

// RequestAirdrop asks the cluster faucet for lamports. A faucet refusal (rate
// limit, unsupported cluster) is a SubmissionRejectedError.
func (c *RPCClient) RequestAirdrop(ctx context.Context, recipient solana.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := c.rpc.RequestAirdrop(ctx, recipient, lamports, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, classify("requestAirdrop", err)
	}

	return sig, nil
}

func (c *RPCClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		return solana.Signature{}, classify("sendTransaction", err)
	}

	return sig, nil
}

// ConfirmTransaction polls the signature status until it reaches commitment or
// the confirm timeout elapses. Unknown signatures and failed polls are retried
// on the next tick; only the terminal outcome is reported.
func (c *RPCClient) ConfirmTransaction(ctx context.Context, sig solana.Signature, commitment Commitment) (*ConfirmationResult, error) {
	if !commitment.Valid() {
		return nil, errors.Errorf("unsupported commitment %q", commitment)
	}

	log := util.LogFromContext(ctx).With().
		Str("component", "ledger").
		Str("signature", sig.String()).
		Str("commitment", string(commitment)).
		Logger()

	started := time.Now()
	pollCtx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)

	for attempt := 1; ; attempt++ {
		if err := limiter.Wait(pollCtx); err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(ctx.Err(), "confirmation aborted")
			}

			log.Warn().Int("attempts", attempt-1).Msg("Signature not confirmed before timeout")
			return nil, &ConfirmationTimeoutError{
				Signature:  sig,
				Commitment: commitment,
				Waited:     time.Since(started),
			}
		}

		out, err := c.rpc.GetSignatureStatuses(pollCtx, false, sig)
		if err != nil {
			if !errors.Is(err, rpc.ErrNotFound) {
				log.Debug().Err(err).Int("attempt", attempt).Msg("Signature status poll failed, retrying")
			}
			continue
		}
		if len(out.Value) == 0 || out.Value[0] == nil {
			continue
		}

		status := out.Value[0]
		reached := Commitment(status.ConfirmationStatus)
		// failed transactions are reported at the requested level too
		if !reached.Reaches(commitment) {
			continue
		}

		log.Debug().
			Uint64("slot", status.Slot).
			Bool("failed", status.Err != nil).
			Dur("waited", time.Since(started)).
			Msg("Signature reached commitment")

		return &ConfirmationResult{
			Signature:  sig,
			Commitment: reached,
			Slot:       status.Slot,
			Err:        status.Err,
		}, nil
	}
}

// classify maps a JSON-RPC error response to SubmissionRejectedError and
// everything else to NetworkError.
func classify(op string, err error) error {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return &SubmissionRejectedError{
			Reason: rpcErr.Message,
			Code:   rpcErr.Code,
			Data:   rpcErr.Data,
		}
	}

	return &NetworkError{Op: op, Err: err}
}
