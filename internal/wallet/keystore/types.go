package keystore

import (
	"github.com/pkg/errors"
)

const (
	fileVersion = 3
	cipherName  = "aes-128-ctr"
	kdfName     = "scrypt"

	saltSize = 32
	ivSize   = 16
)

var (
	ErrKeystoreExists   = errors.New("keystore already exists")
	ErrKeystoreNotFound = errors.New("keystore not found")
	ErrInvalidPassword  = errors.New("invalid keystore password")
)

// File is the keystore v3 layout with the mnemonic as the encrypted secret.
type File struct {
	Version int        `json:"version"`
	ID      string     `json:"id"`
	Crypto  CryptoJSON `json:"crypto"`
}

type CryptoJSON struct {
	Ciphertext   string           `json:"ciphertext"`
	CipherParams CipherParamsJSON `json:"cipherparams"`
	Cipher       string           `json:"cipher"`
	KDF          string           `json:"kdf"`
	KDFParams    KDFParamsJSON    `json:"kdfparams"`
	MAC          string           `json:"mac"`
}

type CipherParamsJSON struct {
	IV string `json:"iv"`
}

type KDFParamsJSON struct {
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
}

// ScryptParams are the KDF cost parameters used when creating a keystore.
type ScryptParams struct {
	DKLen int
	N     int
	R     int
	P     int
}

func DefaultScryptParams() ScryptParams {
	return ScryptParams{
		DKLen: 32,
		N:     1 << 18,
		R:     8,
		P:     1,
	}
}

// LightScryptParams trade security for speed; tests and throwaway dev keys only.
func LightScryptParams() ScryptParams {
	return ScryptParams{
		DKLen: 32,
		N:     1 << 12,
		R:     8,
		P:     1,
	}
}
