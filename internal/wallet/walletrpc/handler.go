package walletrpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/util"
	"github/chapool/go-dapp/internal/wallet/signer"
)

const (
	maxBodyBytes int64 = 1 << 20
	// MaxPayloadsPerRequest bounds sign_transactions.
	MaxPayloadsPerRequest = 16
)

// Backend is the signer side of the contract. Wallet returns the capability
// set bound to an open session.
type Backend interface {
	OpenSession(ctx context.Context) (string, error)
	CloseSession(ctx context.Context, sessionID string) error
	Wallet(sessionID string) (signer.Wallet, error)
}

// Handler serves the wire contract for a Backend.
type Handler struct {
	backend Backend
}

func NewHandler(backend Backend) *Handler {
	return &Handler{backend: backend}
}

func (h *Handler) Register(e *echo.Echo) {
	e.POST(Path, h.Handle)
}

func (h *Handler) Handle(c echo.Context) error {
	ctx := c.Request().Context()
	log := util.LogFromContext(ctx).With().Str("component", "walletrpc").Logger()

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return c.JSON(http.StatusOK, errorResponse(nil, &Error{Code: CodeParseError, Message: "parse error"}))
	}
	if int64(len(body)) > maxBodyBytes {
		return c.NoContent(http.StatusRequestEntityTooLarge)
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusOK, errorResponse(nil, &Error{Code: CodeParseError, Message: "parse error"}))
	}
	if req.JSONRPC != Version || req.Method == "" {
		return c.JSON(http.StatusOK, errorResponse(req.ID, &Error{Code: CodeInvalidRequest, Message: "invalid request"}))
	}

	started := time.Now()
	result, rpcErr := h.dispatch(ctx, c.Request().Header.Get(HeaderSession), req)
	if rpcErr != nil {
		log.Debug().
			Str("method", req.Method).
			Int("rpc_code", rpcErr.Code).
			Dur("took", time.Since(started)).
			Msg("Wallet rpc failed")
		return c.JSON(http.StatusOK, errorResponse(req.ID, rpcErr))
	}

	raw, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Msg("Failed to encode wallet rpc result")
		return c.JSON(http.StatusOK, errorResponse(req.ID, &Error{Code: CodeInternalError, Message: "internal error"}))
	}

	log.Debug().Str("method", req.Method).Dur("took", time.Since(started)).Msg("Wallet rpc served")

	return c.JSON(http.StatusOK, Response{
		JSONRPC: Version,
		ID:      req.ID,
		Result:  raw,
	})
}

func (h *Handler) dispatch(ctx context.Context, sessionID string, req Request) (interface{}, *Error) {
	switch req.Method {
	case MethodOpenSession:
		id, err := h.backend.OpenSession(ctx)
		if err != nil {
			return nil, toRPCError(ctx, err)
		}
		return OpenSessionResult{SessionID: id}, nil

	case MethodCloseSession:
		if sessionID == "" {
			return nil, toRPCError(ctx, ErrMissingSessionID)
		}
		if err := h.backend.CloseSession(ctx, sessionID); err != nil {
			return nil, toRPCError(ctx, err)
		}
		return Empty{}, nil

	case MethodAuthorize, MethodReauthorize, MethodDeauthorize, MethodSignTransactions:
		if sessionID == "" {
			return nil, toRPCError(ctx, ErrMissingSessionID)
		}
		wallet, err := h.backend.Wallet(sessionID)
		if err != nil {
			return nil, toRPCError(ctx, err)
		}
		return h.dispatchScoped(ctx, wallet, req)

	default:
		return nil, &Error{Code: CodeMethodNotFound, Message: "method not found"}
	}
}

func (h *Handler) dispatchScoped(ctx context.Context, wallet signer.Wallet, req Request) (interface{}, *Error) {
	switch req.Method {
	case MethodAuthorize:
		var params AuthorizeParams
		if rpcErr := decodeParams(req.Params, &params); rpcErr != nil {
			return nil, rpcErr
		}
		res, err := wallet.Authorize(ctx, signer.AuthorizeRequest{
			Cluster:  params.Cluster,
			Identity: fromWireIdentity(params.Identity),
		})
		if err != nil {
			return nil, toRPCError(ctx, err)
		}
		return toWireAuthorization(res), nil

	case MethodReauthorize:
		var params ReauthorizeParams
		if rpcErr := decodeParams(req.Params, &params); rpcErr != nil {
			return nil, rpcErr
		}
		res, err := wallet.Reauthorize(ctx, signer.ReauthorizeRequest{
			AuthToken: params.AuthToken,
			Identity:  fromWireIdentity(params.Identity),
		})
		if err != nil {
			return nil, toRPCError(ctx, err)
		}
		return toWireAuthorization(res), nil

	case MethodDeauthorize:
		var params DeauthorizeParams
		if rpcErr := decodeParams(req.Params, &params); rpcErr != nil {
			return nil, rpcErr
		}
		if err := wallet.Deauthorize(ctx, params.AuthToken); err != nil {
			return nil, toRPCError(ctx, err)
		}
		return Empty{}, nil

	default:
		var params SignTransactionsParams
		if rpcErr := decodeParams(req.Params, &params); rpcErr != nil {
			return nil, rpcErr
		}
		payloads, err := decodePayloads(params.Payloads)
		if err != nil {
			return nil, toRPCError(ctx, err)
		}
		signed, err := wallet.SignTransactions(ctx, payloads)
		if err != nil {
			return nil, toRPCError(ctx, err)
		}

		out := SignTransactionsResult{SignedPayloads: make([]string, 0, len(signed))}
		for _, raw := range signed {
			out.SignedPayloads = append(out.SignedPayloads, base64.StdEncoding.EncodeToString(raw))
		}
		return out, nil
	}
}

func decodeParams(raw json.RawMessage, into interface{}) *Error {
	if len(raw) == 0 {
		return &Error{Code: CodeInvalidParams, Message: "invalid params"}
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return &Error{Code: CodeInvalidParams, Message: "invalid params"}
	}

	return nil
}

func decodePayloads(encoded []string) ([][]byte, error) {
	if len(encoded) == 0 {
		return nil, errors.Wrap(ErrInvalidPayloads, "no payloads")
	}
	if len(encoded) > MaxPayloadsPerRequest {
		return nil, errors.Wrapf(ErrTooManyPayloads, "%d payloads, at most %d allowed", len(encoded), MaxPayloadsPerRequest)
	}

	out := make([][]byte, 0, len(encoded))
	for i, payload := range encoded {
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil || len(raw) == 0 {
			return nil, errors.Wrapf(ErrInvalidPayloads, "payload %d is not valid base64", i)
		}
		out = append(out, raw)
	}

	return out, nil
}

func toRPCError(ctx context.Context, err error) *Error {
	switch {
	case errors.Is(err, signer.ErrAuthorizationFailed):
		return &Error{Code: CodeAuthorizationFailed, Message: err.Error()}
	case errors.Is(err, ErrInvalidPayloads):
		return &Error{Code: CodeInvalidPayloads, Message: err.Error()}
	case errors.Is(err, signer.ErrNotSigned):
		return &Error{Code: CodeNotSigned, Message: err.Error()}
	case errors.Is(err, ErrTooManyPayloads):
		return &Error{Code: CodeTooManyPayloads, Message: err.Error()}
	case errors.Is(err, signer.ErrSignerBusy):
		return &Error{Code: CodeSessionBusy, Message: err.Error()}
	case errors.Is(err, ErrUnknownSession), errors.Is(err, ErrMissingSessionID):
		return &Error{Code: CodeUnknownSession, Message: err.Error()}
	default:
		util.LogFromContext(ctx).Error().Err(err).Str("component", "walletrpc").Msg("Unexpected wallet error")
		return &Error{Code: CodeInternalError, Message: "internal error"}
	}
}

func errorResponse(id json.RawMessage, rpcErr *Error) Response {
	return Response{
		JSONRPC: Version,
		ID:      id,
		Error:   rpcErr,
	}
}

func fromWireIdentity(identity Identity) signer.Identity {
	return signer.Identity{
		Name: identity.Name,
		URI:  identity.URI,
		Icon: identity.Icon,
	}
}

func toWireAuthorization(res *signer.AuthorizationResult) AuthorizationResult {
	out := AuthorizationResult{
		Accounts:  make([]Account, 0, len(res.Accounts)),
		AuthToken: res.AuthToken,
	}
	for _, acc := range res.Accounts {
		out.Accounts = append(out.Accounts, Account{
			Address: acc.Address,
			Label:   acc.Label,
		})
	}

	return out
}
