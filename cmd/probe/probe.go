package probe

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/util/command"
)

const (
	verboseFlag string = "verbose"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newLiveness(),
		newReadiness(),
	)
}

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Checks the running server can reach the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			return runProbe(cmd, cfg, "/-/healthy", cfg.Management.LivenessTimeout)
		},
	}
	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe response body.")

	return cmd
}

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Checks the running server is fully initialized",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			return runProbe(cmd, cfg, "/-/ready", cfg.Management.ReadinessTimeout)
		},
	}
	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe response body.")

	return cmd
}

func runProbe(cmd *cobra.Command, cfg config.Server, path string, timeout time.Duration) error {
	command.ConfigureLogger(cfg.Logger)

	flags, err := command.BindFlags(cmd)
	if err != nil {
		return err
	}

	client := resty.New().
		SetBaseURL(cfg.Management.ProbeBaseURL).
		SetTimeout(timeout)

	res, err := client.R().SetContext(cmd.Context()).Get(path)
	if err != nil {
		return errors.Wrapf(err, "probe %s failed", path)
	}

	if flags.GetBool(verboseFlag) {
		//nolint:forbidigo // verbose probe output goes to stdout
		fmt.Println(res.String())
	}

	if res.StatusCode() != http.StatusOK {
		return errors.Errorf("probe %s failed with status %d", path, res.StatusCode())
	}

	log.Debug().Str("path", path).Dur("took", res.Time()).Msg("Probe succeeded")

	return nil
}
