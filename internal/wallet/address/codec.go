package address

import (
	"encoding/base64"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Decode converts the signer's base64 transport address into a public key.
// Any decoded length other than PublicKeyLength fails; nothing is padded or truncated.
func Decode(transportAddress string) (solana.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(transportAddress)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(ErrInvalidAddressEncoding, "base64: %v", err)
	}

	return fromBytes(raw)
}

// Encode is the inverse of Decode.
func Encode(pubKey solana.PublicKey) string {
	return base64.StdEncoding.EncodeToString(pubKey[:])
}

// ParseBase58 parses the human-facing base58 form of an address, as shown by
// explorers and wallets, with the same length rule as Decode.
func ParseBase58(displayAddress string) (solana.PublicKey, error) {
	raw, err := base58.Decode(displayAddress)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(ErrInvalidAddressEncoding, "base58: %v", err)
	}

	return fromBytes(raw)
}

func fromBytes(raw []byte) (solana.PublicKey, error) {
	if len(raw) != PublicKeyLength {
		return solana.PublicKey{}, errors.Wrapf(ErrInvalidAddressEncoding, "expected %d bytes, got %d", PublicKeyLength, len(raw))
	}

	return solana.PublicKeyFromBytes(raw), nil
}
