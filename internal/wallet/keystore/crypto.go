package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

func encrypt(secret []byte, password string, params ScryptParams) (*File, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	ciphertext, err := xorCTR(derivedKey[:16], iv, secret)
	if err != nil {
		return nil, err
	}

	return &File{
		Version: fileVersion,
		ID:      uuid.NewString(),
		Crypto: CryptoJSON{
			Ciphertext:   hex.EncodeToString(ciphertext),
			CipherParams: CipherParamsJSON{IV: hex.EncodeToString(iv)},
			Cipher:       cipherName,
			KDF:          kdfName,
			KDFParams: KDFParamsJSON{
				DKLen: params.DKLen,
				Salt:  hex.EncodeToString(salt),
				N:     params.N,
				R:     params.R,
				P:     params.P,
			},
			MAC: hex.EncodeToString(mac(derivedKey[16:32], ciphertext)),
		},
	}, nil
}

func decrypt(file *File, password string) ([]byte, error) {
	if file.Version != fileVersion || file.Crypto.Cipher != cipherName || file.Crypto.KDF != kdfName {
		return nil, errors.Errorf("unsupported keystore (version %d, cipher %q, kdf %q)",
			file.Version, file.Crypto.Cipher, file.Crypto.KDF)
	}

	salt, err := hex.DecodeString(file.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode salt")
	}
	iv, err := hex.DecodeString(file.Crypto.CipherParams.IV)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode IV")
	}
	ciphertext, err := hex.DecodeString(file.Crypto.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode ciphertext")
	}
	expectedMAC, err := hex.DecodeString(file.Crypto.MAC)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode MAC")
	}

	params := file.Crypto.KDFParams
	if params.DKLen < 32 {
		return nil, errors.Errorf("derived key length %d too short", params.DKLen)
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	if !hmac.Equal(mac(derivedKey[16:32], ciphertext), expectedMAC) {
		return nil, ErrInvalidPassword
	}

	return xorCTR(derivedKey[:16], iv, ciphertext)
}

// xorCTR encrypts and decrypts with AES-128-CTR.
func xorCTR(key []byte, iv []byte, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)

	return out, nil
}

// mac is SHA-256 over the second half of the derived key and the ciphertext.
func mac(key []byte, ciphertext []byte) []byte {
	hasher := sha256.New()
	hasher.Write(key)
	hasher.Write(ciphertext)
	return hasher.Sum(nil)
}
