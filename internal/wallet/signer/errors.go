package signer

import "github.com/pkg/errors"

var (
	// ErrSignerBusy is returned when an exclusive signer session is already open.
	ErrSignerBusy = errors.New("signer session already in progress")
	// ErrSignerUnavailable wraps transport failures reaching the signer process.
	ErrSignerUnavailable = errors.New("signer unavailable")
	// ErrAuthorizationFailed means the signer declined authorize (user rejected, unknown token).
	ErrAuthorizationFailed = errors.New("authorization failed")
	// ErrReauthorizationFailed means the held token was rejected. The user has to
	// connect again; it is never retried as a fresh authorize.
	ErrReauthorizationFailed  = errors.New("reauthorization failed")
	ErrSignatureCountMismatch = errors.New("signer returned a different number of transactions")
	ErrNotSigned              = errors.New("signer declined to sign")
)
