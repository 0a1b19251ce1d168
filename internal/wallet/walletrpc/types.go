package walletrpc

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

const (
	// Path is the JSON-RPC endpoint relative to the signer's base URL.
	Path = "/rpc"
	// HeaderSession carries the id returned by open_session on every scoped call.
	HeaderSession = "X-Wallet-Session"

	Version = "2.0"
)

const (
	MethodOpenSession      = "open_session"
	MethodCloseSession     = "close_session"
	MethodAuthorize        = "authorize"
	MethodReauthorize      = "reauthorize"
	MethodDeauthorize      = "deauthorize"
	MethodSignTransactions = "sign_transactions"
)

// Error codes. Negative single digits are signer specific, the rest follow JSON-RPC 2.0.
const (
	CodeAuthorizationFailed = -1
	CodeInvalidPayloads     = -2
	CodeNotSigned           = -3
	CodeTooManyPayloads     = -5

	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeSessionBusy    = -32001
	CodeUnknownSession = -32002
)

var (
	ErrInvalidPayloads  = errors.New("invalid payloads")
	ErrTooManyPayloads  = errors.New("too many payloads")
	ErrUnknownSession   = errors.New("unknown wallet session")
	ErrInvalidResponse  = errors.New("invalid signer response")
	ErrMissingSessionID = errors.New("missing wallet session header")
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("wallet rpc error %d: %s", e.Code, e.Message)
}

type Identity struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
	Icon string `json:"icon"`
}

type AuthorizeParams struct {
	Identity Identity `json:"identity"`
	Cluster  string   `json:"cluster"`
}

type ReauthorizeParams struct {
	Identity  Identity `json:"identity"`
	AuthToken string   `json:"auth_token"`
}

type DeauthorizeParams struct {
	AuthToken string `json:"auth_token"`
}

// Account addresses are standard base64 encoded public keys.
type Account struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
}

type AuthorizationResult struct {
	Accounts  []Account `json:"accounts"`
	AuthToken string    `json:"auth_token"`
}

// SignTransactionsParams carries standard base64 encoded serialized transactions.
type SignTransactionsParams struct {
	Payloads []string `json:"payloads"`
}

type SignTransactionsResult struct {
	SignedPayloads []string `json:"signed_payloads"`
}

type OpenSessionResult struct {
	SessionID string `json:"session_id"`
}

type Empty struct{}
