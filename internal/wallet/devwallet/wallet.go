package devwallet

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/util"
	"github/chapool/go-dapp/internal/wallet/address"
	"github/chapool/go-dapp/internal/wallet/signer"
	"github/chapool/go-dapp/internal/wallet/transaction"
	"github/chapool/go-dapp/internal/wallet/walletrpc"
)

type Options struct {
	Label string
	// RotateAuthTokens issues a new token on every reauthorize.
	RotateAuthTokens bool
	// Clusters limits the clusters the signer will authorize for. Empty allows all.
	Clusters []string
	// SessionIdleTimeout lets a new session replace an open one that saw no
	// calls for this long. Zero uses DefaultSessionIdleTimeout.
	SessionIdleTimeout time.Duration
}

const DefaultSessionIdleTimeout = time.Minute

// Wallet is a development signer holding a single ed25519 key. It serves one
// open session at a time and signs only transactions that need its key.
type Wallet struct {
	key  solana.PrivateKey
	opts Options

	mu         sync.Mutex
	sessionID  string
	lastSeen   time.Time
	authorized bool
	tokens     map[string]string
}

var _ walletrpc.Backend = (*Wallet)(nil)

func New(key solana.PrivateKey, opts Options) (*Wallet, error) {
	if err := key.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid signing key")
	}
	if opts.Label == "" {
		opts.Label = "dev-signer"
	}
	if opts.SessionIdleTimeout <= 0 {
		opts.SessionIdleTimeout = DefaultSessionIdleTimeout
	}

	return &Wallet{
		key:    key,
		opts:   opts,
		tokens: make(map[string]string),
	}, nil
}

func (w *Wallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

func (w *Wallet) OpenSession(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	log := util.LogFromContext(ctx)

	if w.sessionID != "" {
		idle := time.Since(w.lastSeen)
		if idle < w.opts.SessionIdleTimeout {
			return "", signer.ErrSignerBusy
		}

		log.Warn().Str("session", w.sessionID).Dur("idle", idle).Msg("Expiring idle signer session")
	}

	w.sessionID = uuid.NewString()
	w.lastSeen = time.Now()
	w.authorized = false

	log.Debug().Str("session", w.sessionID).Msg("Signer session opened")

	return w.sessionID, nil
}

func (w *Wallet) CloseSession(ctx context.Context, sessionID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if sessionID == "" || sessionID != w.sessionID {
		return walletrpc.ErrUnknownSession
	}

	w.sessionID = ""
	w.authorized = false

	util.LogFromContext(ctx).Debug().Str("session", sessionID).Msg("Signer session closed")

	return nil
}

//nolint:ireturn
func (w *Wallet) Wallet(sessionID string) (signer.Wallet, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if sessionID == "" || sessionID != w.sessionID {
		return nil, walletrpc.ErrUnknownSession
	}

	w.lastSeen = time.Now()

	return &scoped{wallet: w, sessionID: sessionID}, nil
}

// scoped is the capability set of one open session. Every call re-checks that
// the session is still the open one.
type scoped struct {
	wallet    *Wallet
	sessionID string
}

func (s *scoped) Authorize(ctx context.Context, req signer.AuthorizeRequest) (*signer.AuthorizationResult, error) {
	w := s.wallet

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := s.checkSession(); err != nil {
		return nil, err
	}
	if req.Identity.Name == "" {
		return nil, errors.Wrap(signer.ErrAuthorizationFailed, "identity name is required")
	}
	if !w.clusterAllowed(req.Cluster) {
		return nil, errors.Wrapf(signer.ErrAuthorizationFailed, "cluster %q not supported", req.Cluster)
	}

	token := uuid.NewString()
	w.tokens[token] = req.Identity.URI
	w.authorized = true

	util.LogFromContext(ctx).Info().
		Str("app", req.Identity.Name).
		Str("uri", req.Identity.URI).
		Str("cluster", req.Cluster).
		Msg("Authorized application")

	return w.result(token), nil
}

func (s *scoped) Reauthorize(_ context.Context, req signer.ReauthorizeRequest) (*signer.AuthorizationResult, error) {
	w := s.wallet

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := s.checkSession(); err != nil {
		return nil, err
	}

	uri, ok := w.tokens[req.AuthToken]
	if !ok {
		return nil, errors.Wrap(signer.ErrAuthorizationFailed, "unknown auth token")
	}
	if uri != req.Identity.URI {
		return nil, errors.Wrap(signer.ErrAuthorizationFailed, "auth token was issued to another application")
	}

	token := req.AuthToken
	if w.opts.RotateAuthTokens {
		delete(w.tokens, token)
		token = uuid.NewString()
		w.tokens[token] = uri
	}
	w.authorized = true

	return w.result(token), nil
}

func (s *scoped) Deauthorize(_ context.Context, authToken string) error {
	w := s.wallet

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := s.checkSession(); err != nil {
		return err
	}
	if _, ok := w.tokens[authToken]; !ok {
		return errors.Wrap(signer.ErrAuthorizationFailed, "unknown auth token")
	}

	delete(w.tokens, authToken)
	w.authorized = false

	return nil
}

func (s *scoped) SignTransactions(ctx context.Context, payloads [][]byte) ([][]byte, error) {
	w := s.wallet

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := s.checkSession(); err != nil {
		return nil, err
	}
	if !w.authorized {
		return nil, errors.Wrap(signer.ErrAuthorizationFailed, "session is not authorized")
	}

	signed := make([][]byte, 0, len(payloads))
	for i, payload := range payloads {
		raw, err := w.sign(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "payload %d", i)
		}
		signed = append(signed, raw)
	}

	util.LogFromContext(ctx).Info().Int("count", len(signed)).Msg("Signed transactions")

	return signed, nil
}

func (s *scoped) checkSession() error {
	if s.wallet.sessionID != s.sessionID {
		return walletrpc.ErrUnknownSession
	}
	s.wallet.lastSeen = time.Now()

	return nil
}

func (w *Wallet) sign(payload []byte) ([]byte, error) {
	tx, err := transaction.Decode(payload)
	if err != nil {
		return nil, errors.Wrapf(walletrpc.ErrInvalidPayloads, "decode: %v", err)
	}

	pub := w.key.PublicKey()

	required := false
	for _, key := range transaction.RequiredSigners(&tx.Message) {
		if key.Equals(pub) {
			required = true
			break
		}
	}
	if !required {
		return nil, errors.Wrapf(signer.ErrNotSigned, "%s is not a required signer", pub)
	}

	if _, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(pub) {
			return &w.key
		}
		return nil
	}); err != nil {
		return nil, errors.Wrapf(walletrpc.ErrInvalidPayloads, "sign: %v", err)
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize signed transaction")
	}

	return raw, nil
}

func (w *Wallet) result(token string) *signer.AuthorizationResult {
	return &signer.AuthorizationResult{
		Accounts: []signer.AuthorizedAccount{{
			Address: address.Encode(w.key.PublicKey()),
			Label:   w.opts.Label,
		}},
		AuthToken: token,
	}
}

func (w *Wallet) clusterAllowed(cluster string) bool {
	if len(w.opts.Clusters) == 0 {
		return true
	}

	for _, allowed := range w.opts.Clusters {
		if allowed == cluster {
			return true
		}
	}

	return false
}
