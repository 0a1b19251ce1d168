package signer

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/util"
	"github/chapool/go-dapp/internal/wallet/address"
	"github/chapool/go-dapp/internal/wallet/session"
)

type service struct {
	transactor Transactor
	store      *session.Store
	cluster    string
	identity   Identity
	now        func() time.Time
}

// NewService creates the wallet session protocol on top of transactor. The
// transactor should already be exclusive (see NewExclusiveTransactor).
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(transactor Transactor, store *session.Store, cluster string, identity Identity) (Service, error) {
	if transactor == nil {
		return nil, errors.New("transactor is required")
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if cluster == "" {
		return nil, errors.New("cluster is required")
	}

	return &service{
		transactor: transactor,
		store:      store,
		cluster:    cluster,
		identity:   identity,
		now:        time.Now,
	}, nil
}

func (s *service) Connect(ctx context.Context) (*session.Account, error) {
	var account session.Account

	err := s.transactor.Transact(ctx, func(ctx context.Context, wallet Wallet) error {
		res, err := wallet.Authorize(ctx, AuthorizeRequest{
			Cluster:  s.cluster,
			Identity: s.identity,
		})
		if err != nil {
			return errors.Wrap(err, "authorize")
		}

		account, err = s.accountFrom(res)
		if err != nil {
			return err
		}

		s.store.SetAccount(account)
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.LogFromContext(ctx).Info().
		Str("component", "signer").
		Str("address", account.Address.String()).
		Str("cluster", s.cluster).
		Msg("Wallet connected")

	return &account, nil
}

func (s *service) Reauthorize(ctx context.Context) (*session.Account, error) {
	var account session.Account

	err := s.transactor.Transact(ctx, func(ctx context.Context, wallet Wallet) error {
		var err error
		account, err = s.reauthorize(ctx, wallet)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (s *service) SignTransactions(ctx context.Context, payloads [][]byte) ([][]byte, error) {
	if len(payloads) == 0 {
		return nil, errors.New("no transactions to sign")
	}

	var signed [][]byte

	err := s.transactor.Transact(ctx, func(ctx context.Context, wallet Wallet) error {
		if _, err := s.reauthorize(ctx, wallet); err != nil {
			return err
		}

		out, err := wallet.SignTransactions(ctx, payloads)
		if err != nil {
			return errors.Wrap(err, "sign transactions")
		}
		if len(out) != len(payloads) {
			return errors.Wrapf(ErrSignatureCountMismatch, "sent %d, received %d", len(payloads), len(out))
		}

		signed = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	return signed, nil
}

func (s *service) Disconnect(ctx context.Context) error {
	log := util.LogFromContext(ctx).With().Str("component", "signer").Logger()

	current, ok := s.store.CurrentAccount()
	if !ok {
		return nil
	}

	err := s.transactor.Transact(ctx, func(ctx context.Context, wallet Wallet) error {
		if err := wallet.Deauthorize(ctx, current.AuthToken); err != nil {
			log.Warn().Err(err).Msg("Failed to deauthorize, dropping session anyway")
		}

		s.store.Clear()
		return nil
	})
	if errors.Is(err, ErrSignerBusy) {
		return err
	}
	if err != nil {
		log.Warn().Err(err).Msg("Signer session failed during disconnect, dropping session anyway")
		s.store.Clear()
	}

	log.Info().Str("address", current.Address.String()).Msg("Wallet disconnected")

	return nil
}

func (s *service) State() State {
	if _, ok := s.store.CurrentAccount(); ok {
		return StateConnected
	}

	return StateDisconnected
}

// reauthorize must run inside an open session. A rejected token clears the
// store since the account can no longer sign.
func (s *service) reauthorize(ctx context.Context, wallet Wallet) (session.Account, error) {
	current, ok := s.store.CurrentAccount()
	if !ok {
		return session.Account{}, session.ErrNoActiveSession
	}

	res, err := wallet.Reauthorize(ctx, ReauthorizeRequest{
		AuthToken: current.AuthToken,
		Identity:  s.identity,
	})
	if err != nil {
		if errors.Is(err, ErrAuthorizationFailed) {
			s.store.Clear()
			return session.Account{}, errors.Wrapf(ErrReauthorizationFailed, "reauthorize: %v", err)
		}

		return session.Account{}, errors.Wrap(err, "reauthorize")
	}

	if res.AuthToken == "" || res.AuthToken == current.AuthToken {
		return *current, nil
	}

	rotated := current.WithAuthToken(res.AuthToken)
	s.store.SetAccount(rotated)

	util.LogFromContext(ctx).Debug().
		Str("component", "signer").
		Str("address", rotated.Address.String()).
		Msg("Signer rotated auth token")

	return rotated, nil
}

// accountFrom selects the first account of an authorization result.
func (s *service) accountFrom(res *AuthorizationResult) (session.Account, error) {
	if res == nil || len(res.Accounts) == 0 {
		return session.Account{}, errors.Wrap(ErrAuthorizationFailed, "signer returned no accounts")
	}
	if res.AuthToken == "" {
		return session.Account{}, errors.Wrap(ErrAuthorizationFailed, "signer returned no auth token")
	}

	first := res.Accounts[0]

	pubKey, err := address.Decode(first.Address)
	if err != nil {
		return session.Account{}, err
	}

	return session.Account{
		Address:          pubKey,
		TransportAddress: first.Address,
		Label:            first.Label,
		AuthToken:        res.AuthToken,
		ConnectedAt:      s.now(),
	}, nil
}
