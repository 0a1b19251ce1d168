package walletrpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/util"
	"github/chapool/go-dapp/internal/wallet/signer"
)

const closeSessionTimeout = 5 * time.Second

// Client reaches an external signer over the wire contract. It implements
// signer.Transactor: every Transact opens a signer side session and closes it
// again when the callback returns.
type Client struct {
	http   *resty.Client
	nextID atomic.Uint64
}

var _ signer.Transactor = (*Client)(nil)

func NewClient(endpoint string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}
}

func (c *Client) Transact(ctx context.Context, fn signer.TransactFunc) error {
	var opened OpenSessionResult
	if err := c.call(ctx, "", MethodOpenSession, nil, &opened); err != nil {
		return err
	}
	if opened.SessionID == "" {
		return errors.Wrap(ErrInvalidResponse, "empty session id")
	}

	defer func() {
		// close even when ctx is already done so the signer frees its session slot
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeSessionTimeout)
		defer cancel()

		if err := c.call(closeCtx, opened.SessionID, MethodCloseSession, nil, nil); err != nil {
			util.LogFromContext(ctx).Warn().
				Err(err).
				Str("component", "walletrpc").
				Msg("Failed to close signer session")
		}
	}()

	return fn(ctx, &sessionWallet{client: c, sessionID: opened.SessionID})
}

// call performs one JSON-RPC request. out may be nil when the result is ignored.
func (c *Client) call(ctx context.Context, sessionID string, method string, params interface{}, out interface{}) error {
	req := Request{
		JSONRPC: Version,
		ID:      json.RawMessage(strconv.FormatUint(c.nextID.Add(1), 10)),
		Method:  method,
	}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return errors.Wrapf(err, "failed to encode %s params", method)
		}
		req.Params = raw
	}

	r := c.http.R().SetContext(ctx).SetBody(req)
	if sessionID != "" {
		r.SetHeader(HeaderSession, sessionID)
	}

	res, err := r.Post(Path)
	if err != nil {
		return errors.Wrapf(signer.ErrSignerUnavailable, "%s: %v", method, err)
	}
	if res.IsError() {
		return errors.Wrapf(signer.ErrSignerUnavailable, "%s: unexpected status %d", method, res.StatusCode())
	}

	var resp Response
	if err := json.Unmarshal(res.Body(), &resp); err != nil {
		return errors.Wrapf(ErrInvalidResponse, "%s: %v", method, err)
	}
	if resp.Error != nil {
		return fromRPCError(method, resp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return errors.Wrapf(ErrInvalidResponse, "%s result: %v", method, err)
	}

	return nil
}

// fromRPCError maps wire codes back onto the signer error taxonomy.
func fromRPCError(method string, rpcErr *Error) error {
	switch rpcErr.Code {
	case CodeAuthorizationFailed:
		return errors.Wrapf(signer.ErrAuthorizationFailed, "%s: %s", method, rpcErr.Message)
	case CodeNotSigned:
		return errors.Wrapf(signer.ErrNotSigned, "%s: %s", method, rpcErr.Message)
	case CodeSessionBusy:
		return errors.Wrapf(signer.ErrSignerBusy, "%s: %s", method, rpcErr.Message)
	case CodeUnknownSession:
		return errors.Wrapf(ErrUnknownSession, "%s: %s", method, rpcErr.Message)
	case CodeInvalidPayloads:
		return errors.Wrapf(ErrInvalidPayloads, "%s: %s", method, rpcErr.Message)
	case CodeTooManyPayloads:
		return errors.Wrapf(ErrTooManyPayloads, "%s: %s", method, rpcErr.Message)
	default:
		return errors.Wrap(rpcErr, method)
	}
}

type sessionWallet struct {
	client    *Client
	sessionID string
}

func (w *sessionWallet) Authorize(ctx context.Context, req signer.AuthorizeRequest) (*signer.AuthorizationResult, error) {
	var out AuthorizationResult
	if err := w.client.call(ctx, w.sessionID, MethodAuthorize, AuthorizeParams{
		Identity: toWireIdentity(req.Identity),
		Cluster:  req.Cluster,
	}, &out); err != nil {
		return nil, err
	}

	return fromWireAuthorization(out), nil
}

func (w *sessionWallet) Reauthorize(ctx context.Context, req signer.ReauthorizeRequest) (*signer.AuthorizationResult, error) {
	var out AuthorizationResult
	if err := w.client.call(ctx, w.sessionID, MethodReauthorize, ReauthorizeParams{
		Identity:  toWireIdentity(req.Identity),
		AuthToken: req.AuthToken,
	}, &out); err != nil {
		return nil, err
	}

	return fromWireAuthorization(out), nil
}

func (w *sessionWallet) Deauthorize(ctx context.Context, authToken string) error {
	return w.client.call(ctx, w.sessionID, MethodDeauthorize, DeauthorizeParams{AuthToken: authToken}, nil)
}

func (w *sessionWallet) SignTransactions(ctx context.Context, payloads [][]byte) ([][]byte, error) {
	params := SignTransactionsParams{Payloads: make([]string, 0, len(payloads))}
	for _, payload := range payloads {
		params.Payloads = append(params.Payloads, base64.StdEncoding.EncodeToString(payload))
	}

	var out SignTransactionsResult
	if err := w.client.call(ctx, w.sessionID, MethodSignTransactions, params, &out); err != nil {
		return nil, err
	}

	signed := make([][]byte, 0, len(out.SignedPayloads))
	for i, encoded := range out.SignedPayloads {
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidResponse, "signed payload %d: %v", i, err)
		}
		signed = append(signed, raw)
	}

	return signed, nil
}

func toWireIdentity(identity signer.Identity) Identity {
	return Identity{
		Name: identity.Name,
		URI:  identity.URI,
		Icon: identity.Icon,
	}
}

func fromWireAuthorization(res AuthorizationResult) *signer.AuthorizationResult {
	out := &signer.AuthorizationResult{
		Accounts:  make([]signer.AuthorizedAccount, 0, len(res.Accounts)),
		AuthToken: res.AuthToken,
	}
	for _, acc := range res.Accounts {
		out.Accounts = append(out.Accounts, signer.AuthorizedAccount{
			Address: acc.Address,
			Label:   acc.Label,
		})
	}

	return out
}
