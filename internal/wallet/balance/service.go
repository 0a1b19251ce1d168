//nolint:ireturn // returning interfaces is intended
package balance

import (
	"context"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/metrics"
	"github/chapool/go-dapp/internal/util"
	"github/chapool/go-dapp/internal/wallet/ledger"
	"github/chapool/go-dapp/internal/wallet/session"
)

const (
	// LamportsPerSOL is the number of base units in one SOL.
	LamportsPerSOL = solana.LAMPORTS_PER_SOL

	solDecimals       = 9
	bigFloatPrecision = 256
)

// Service keeps the session store's balance in line with the ledger. It never
// polls on its own; callers refresh after operations that change the balance.
type Service interface {
	// Refresh queries the balance of owner and records it when owner is still
	// the current account.
	Refresh(ctx context.Context, owner solana.PublicKey) (uint64, error)
	// RefreshCurrent refreshes the held account or fails with session.ErrNoActiveSession.
	RefreshCurrent(ctx context.Context) (uint64, error)
}

type service struct {
	ledger  ledger.Client
	store   *session.Store
	metrics *metrics.Service
}

func NewService(ledgerClient ledger.Client, store *session.Store, metricsService *metrics.Service) Service {
	return &service{
		ledger:  ledgerClient,
		store:   store,
		metrics: metricsService,
	}
}

func (s *service) Refresh(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	lamports, err := s.ledger.GetBalance(ctx, owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to refresh balance")
	}

	if !s.store.SetBalance(owner, lamports) {
		util.LogFromContext(ctx).Debug().
			Str("component", "balance").
			Str("address", owner.String()).
			Msg("Discarding balance of an account that is no longer connected")

		return lamports, nil
	}

	s.metrics.SetBalance(lamports)

	return lamports, nil
}

func (s *service) RefreshCurrent(ctx context.Context) (uint64, error) {
	owner, err := s.store.CurrentPublicKey()
	if err != nil {
		return 0, err
	}

	return s.Refresh(ctx, owner)
}

// ToSOL converts lamports into SOL without losing precision.
func ToSOL(lamports uint64) *big.Float {
	amount := new(big.Float).SetPrec(bigFloatPrecision).SetUint64(lamports)
	return amount.Quo(amount, new(big.Float).SetPrec(bigFloatPrecision).SetUint64(LamportsPerSOL))
}

// FormatSOL renders lamports as a decimal SOL amount with trailing zeros trimmed.
func FormatSOL(lamports uint64) string {
	whole := lamports / LamportsPerSOL
	frac := lamports % LamportsPerSOL
	if frac == 0 {
		return new(big.Int).SetUint64(whole).String()
	}

	return trimZeros(ToSOL(lamports).Text('f', solDecimals))
}

func trimZeros(s string) string {
	end := len(s)
	for end > 0 && s[end-1] == '0' {
		end--
	}
	if end > 0 && s[end-1] == '.' {
		end--
	}
	return s[:end]
}
