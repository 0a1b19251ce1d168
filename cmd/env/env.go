package env

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github/chapool/go-dapp/internal/config"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the effective configuration as JSON",
		Long: `Prints the configuration the server would run with, as built
from ENV and an optional .env.local. Secrets are omitted.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printEnv(config.DefaultServiceConfigFromEnv())
		},
	}
}

func printEnv(cfg config.Server) error {
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	//nolint:forbidigo // the config is the command's output
	fmt.Println(string(out))

	return nil
}
