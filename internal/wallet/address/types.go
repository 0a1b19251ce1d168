package address

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// PublicKeyLength is the decoded size of a ledger account address.
const PublicKeyLength = solana.PublicKeyLength

// ErrInvalidAddressEncoding is returned when a transport address does not decode
// to exactly PublicKeyLength bytes. It usually means the signer response is corrupt.
var ErrInvalidAddressEncoding = errors.New("invalid address encoding")
