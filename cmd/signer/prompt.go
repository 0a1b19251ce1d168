package signer

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github/chapool/go-dapp/internal/config"
)

const minPasswordLength = 8

var errPasswordMismatch = errors.New("passwords do not match")

// readPassword returns DEV_SIGNER_PASSWORD when set and prompts otherwise.
// confirm asks twice, for creating a keystore.
func readPassword(cfg config.DevSigner, confirm bool) (string, error) {
	password := cfg.Password
	if password == "" {
		var err error
		password, err = promptPassword("Enter keystore password: ")
		if err != nil {
			return "", err
		}

		if confirm {
			again, err := promptPassword("Confirm keystore password: ")
			if err != nil {
				return "", err
			}
			if again != password {
				return "", errPasswordMismatch
			}
		}
	}

	if confirm && len(password) < minPasswordLength {
		return "", errors.Errorf("password must be at least %d characters", minPasswordLength)
	}

	return password, nil
}

// promptPassword prompts for password input (hides input)
//
//nolint:forbidigo // Password input requires direct terminal I/O
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", errors.Wrap(err, "failed to read password from terminal")
	}

	fmt.Println()

	return string(passwordBytes), nil
}
