package keystore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/util"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// Service stores one encrypted mnemonic in a file.
type Service interface {
	// Create encrypts mnemonic and writes the keystore. It never overwrites.
	Create(ctx context.Context, mnemonic string, password string) (*File, error)
	// Unlock reads the keystore and decrypts the mnemonic.
	Unlock(ctx context.Context, password string) (string, error)
	Exists(ctx context.Context) (bool, error)
	Path() string
}

type service struct {
	path   string
	params ScryptParams
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(path string, params ScryptParams) (Service, error) {
	if path == "" {
		return nil, errors.New("keystore path is required")
	}

	return &service{
		path:   path,
		params: params,
	}, nil
}

func (s *service) Path() string {
	return s.path
}

func (s *service) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, errors.Wrap(err, "failed to stat keystore")
	}
}

func (s *service) Create(ctx context.Context, mnemonic string, password string) (*File, error) {
	log := util.LogFromContext(ctx)

	exists, err := s.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrap(ErrKeystoreExists, s.path)
	}

	file, err := encrypt([]byte(mnemonic), password, s.params)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encrypt mnemonic")
		return nil, errors.Wrap(err, "failed to encrypt mnemonic")
	}

	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal keystore")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return nil, errors.Wrap(err, "failed to create keystore directory")
	}

	// O_EXCL keeps a concurrent init from clobbering an existing keystore
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, errors.Wrap(ErrKeystoreExists, s.path)
		}
		return nil, errors.Wrap(err, "failed to create keystore file")
	}

	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		_ = os.Remove(s.path)
		return nil, errors.Wrap(err, "failed to write keystore")
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to close keystore")
	}

	log.Info().Str("path", s.path).Str("id", file.ID).Msg("Keystore created")

	return file, nil
}

func (s *service) Unlock(ctx context.Context, password string) (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errors.Wrap(ErrKeystoreNotFound, s.path)
		}
		return "", errors.Wrap(err, "failed to read keystore")
	}

	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return "", errors.Wrap(err, "failed to parse keystore")
	}

	secret, err := decrypt(&file, password)
	if err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			util.LogFromContext(ctx).Warn().Str("path", s.path).Msg("Keystore unlock with wrong password")
		}
		return "", err
	}

	return string(secret), nil
}
