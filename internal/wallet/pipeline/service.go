package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github/chapool/go-dapp/internal/metrics"
	"github/chapool/go-dapp/internal/util"
	"github/chapool/go-dapp/internal/wallet/balance"
	"github/chapool/go-dapp/internal/wallet/chain"
	"github/chapool/go-dapp/internal/wallet/ledger"
	"github/chapool/go-dapp/internal/wallet/session"
	"github/chapool/go-dapp/internal/wallet/signer"
	"github/chapool/go-dapp/internal/wallet/transaction"
)

type service struct {
	signer          signer.Service
	ledger          ledger.Client
	balance         balance.Service
	store           *session.Store
	metrics         *metrics.Service
	cluster         string
	explorerBaseURL string
	now             func() time.Time
}

// Deps are the collaborators of the pipeline.
type Deps struct {
	Signer          signer.Service
	Ledger          ledger.Client
	Balance         balance.Service
	Store           *session.Store
	Metrics         *metrics.Service
	Cluster         string
	ExplorerBaseURL string
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Signer == nil:
		return nil, errors.New("signer is required")
	case deps.Ledger == nil:
		return nil, errors.New("ledger client is required")
	case deps.Balance == nil:
		return nil, errors.New("balance service is required")
	case deps.Store == nil:
		return nil, errors.New("session store is required")
	case deps.Metrics == nil:
		return nil, errors.New("metrics are required")
	}

	return &service{
		signer:          deps.Signer,
		ledger:          deps.Ledger,
		balance:         deps.Balance,
		store:           deps.Store,
		metrics:         deps.Metrics,
		cluster:         deps.Cluster,
		explorerBaseURL: deps.ExplorerBaseURL,
		now:             time.Now,
	}, nil
}

func (s *service) Memo(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMemo
	}

	owner, err := s.store.CurrentPublicKey()
	if err != nil {
		return nil, err
	}

	log := s.logger(ctx, OperationMemo, owner)

	blockhash, err := s.ledger.GetLatestBlockhash(ctx)
	if err != nil {
		s.metrics.ObserveOperation(OperationMemo, outcomeOf(err))
		return nil, errors.Wrap(err, "failed to fetch blockhash")
	}

	compiled, err := transaction.Compile(owner, blockhash.Hash, []solana.Instruction{
		transaction.MemoInstruction(text),
	})
	if err != nil {
		return nil, err
	}

	unsigned, err := transaction.NewUnsigned(compiled)
	if err != nil {
		return nil, err
	}

	signedPayloads, err := s.signer.SignTransactions(ctx, [][]byte{unsigned})
	s.metrics.ObserveSignerCall("sign_transactions", metrics.SignerOutcome(err))
	if err != nil {
		s.metrics.ObserveOperation(OperationMemo, outcomeOf(err))
		return nil, err
	}

	signed, err := s.verifySigned(signedPayloads[0], compiled, owner)
	if err != nil {
		s.metrics.ObserveOperation(OperationMemo, outcomeOf(err))
		return nil, err
	}

	sig, err := s.ledger.SendTransaction(ctx, signed)
	if err != nil {
		s.metrics.ObserveOperation(OperationMemo, outcomeOf(err))
		return nil, errors.Wrap(err, "failed to submit memo transaction")
	}

	log.Info().Str("signature", sig.String()).Msg("Memo transaction submitted")

	return s.confirm(ctx, OperationMemo, owner, sig, MemoCommitment)
}

func (s *service) Airdrop(ctx context.Context, lamports uint64) (*Result, error) {
	if lamports == 0 {
		return nil, ErrInvalidAmount
	}

	owner, err := s.store.CurrentPublicKey()
	if err != nil {
		return nil, err
	}

	sig, err := s.ledger.RequestAirdrop(ctx, owner, lamports)
	if err != nil {
		s.metrics.ObserveOperation(OperationAirdrop, outcomeOf(err))
		return nil, errors.Wrap(err, "failed to request airdrop")
	}

	log := s.logger(ctx, OperationAirdrop, owner)
	log.Info().
		Str("signature", sig.String()).
		Uint64("lamports", lamports).
		Msg("Airdrop requested")

	return s.confirm(ctx, OperationAirdrop, owner, sig, AirdropCommitment)
}

// verifySigned decodes the signer's output and makes sure it is exactly the
// compiled message, signed by the fee payer.
func (s *service) verifySigned(raw []byte, compiled *transaction.Compiled, owner solana.PublicKey) (*solana.Transaction, error) {
	signed, err := transaction.Decode(raw)
	if err != nil {
		return nil, errors.Wrapf(ErrSignedMessageMismatch, "decode: %v", err)
	}

	same, err := transaction.SameMessage(signed, compiled)
	if err != nil {
		return nil, errors.Wrapf(ErrSignedMessageMismatch, "compare: %v", err)
	}
	if !same {
		return nil, ErrSignedMessageMismatch
	}

	if len(signed.Signatures) == 0 || signed.Signatures[0].IsZero() {
		return nil, errors.Wrapf(signer.ErrNotSigned, "no signature for fee payer %s", owner)
	}

	return signed, nil
}

// confirm waits for commitment and refreshes the balance once on success. A
// failed refresh is logged and leaves Result.Balance nil.
func (s *service) confirm(ctx context.Context, operation string, owner solana.PublicKey, sig solana.Signature, commitment ledger.Commitment) (*Result, error) {
	log := s.logger(ctx, operation, owner).With().Str("signature", sig.String()).Logger()

	started := s.now()

	res, err := s.ledger.ConfirmTransaction(ctx, sig, commitment)
	if err != nil {
		s.metrics.ObserveOperation(operation, outcomeOf(err))
		if errors.Is(err, ledger.ErrConfirmationTimeout) {
			log.Warn().Err(err).Msg("Transaction outcome unresolved")
		}
		return nil, err
	}

	took := s.now().Sub(started)
	s.metrics.ObserveConfirmation(operation, took)

	if !res.Succeeded() {
		s.metrics.ObserveOperation(operation, metrics.OutcomeFailed)
		log.Warn().Interface("details", res.Err).Msg("Transaction failed on ledger")

		return nil, &LedgerError{
			Operation: operation,
			Signature: sig,
			Details:   res.Err,
		}
	}

	result := &Result{
		Operation:   operation,
		Signature:   sig,
		Commitment:  res.Commitment,
		Slot:        res.Slot,
		ExplorerURL: chain.ExplorerTxURL(s.explorerBaseURL, s.cluster, sig.String()),
		Took:        took,
	}

	lamports, err := s.balance.Refresh(ctx, owner)
	if err != nil {
		log.Warn().Err(err).Msg("Balance refresh after confirmed transaction failed")
	} else {
		result.Balance = &lamports
	}

	s.metrics.ObserveOperation(operation, metrics.OutcomeSuccess)
	log.Info().
		Str("commitment", string(res.Commitment)).
		Uint64("slot", res.Slot).
		Dur("took", took).
		Msg("Transaction confirmed")

	return result, nil
}

func (s *service) logger(ctx context.Context, operation string, owner solana.PublicKey) zerolog.Logger {
	return util.LogFromContext(ctx).With().
		Str("component", "pipeline").
		Str("operation", operation).
		Str("address", owner.String()).
		Logger()
}

func outcomeOf(err error) string {
	var rejected *ledger.SubmissionRejectedError

	switch {
	case errors.Is(err, ledger.ErrConfirmationTimeout):
		return metrics.OutcomeTimeout
	case errors.As(err, &rejected):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
