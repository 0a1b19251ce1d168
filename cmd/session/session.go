package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/util/command"
	"github/chapool/go-dapp/internal/wallet/balance"
)

const (
	lamportsFlag = "lamports"
	messageFlag  = "message"
)

// New returns the one-shot session commands. Sessions live in memory only, so
// every command connects to the signer first and disconnects when done.
func New() *cobra.Command {
	return command.NewSubcommandGroup("session",
		newConnect(),
		newBalance(),
		newAirdrop(),
		newMemo(),
	)
}

func newConnect() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Authorizes with the signer and prints the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(_ context.Context, s *api.Server) error {
				return printJSON(balance.ToSessionView(s.Store.Snapshot(), s.Config.Ledger.Cluster))
			})
		},
	}
}

func newBalance() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Prints the balance of the signer's account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *api.Server) error {
				if _, err := s.Balance.RefreshCurrent(ctx); err != nil {
					return errors.Wrap(err, "failed to refresh balance")
				}

				return printJSON(balance.ToSessionView(s.Store.Snapshot(), s.Config.Ledger.Cluster))
			})
		},
	}
}

func newAirdrop() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "airdrop",
		Short: "Requests an airdrop for the signer's account and waits for finalization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags, err := command.BindFlags(cmd)
			if err != nil {
				return err
			}

			return withSession(cmd.Context(), func(ctx context.Context, s *api.Server) error {
				lamports := flags.GetUint64(lamportsFlag)
				if lamports == 0 {
					lamports = s.Config.Pipeline.AirdropLamports
				}

				res, err := s.Pipeline.Airdrop(ctx, lamports)
				if err != nil {
					return err
				}

				return printJSON(res.ToTypes())
			})
		},
	}
	cmd.Flags().Uint64(lamportsFlag, 0, "Lamports to request, defaults to PIPELINE_AIRDROP_LAMPORTS.")

	return cmd
}

func newMemo() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memo",
		Short: "Writes a memo signed by the signer's account and waits for confirmation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags, err := command.BindFlags(cmd)
			if err != nil {
				return err
			}

			return withSession(cmd.Context(), func(ctx context.Context, s *api.Server) error {
				message := flags.GetString(messageFlag)
				if message == "" {
					message = s.Config.Pipeline.DefaultMemo
				}

				res, err := s.Pipeline.Memo(ctx, message)
				if err != nil {
					return err
				}

				return printJSON(res.ToTypes())
			})
		},
	}
	cmd.Flags().StringP(messageFlag, "m", "", "Memo text, defaults to PIPELINE_DEFAULT_MEMO.")

	return cmd
}

// withSession connects to the signer, loads the balance and runs f. The server
// shutdown closes the session again.
func withSession(ctx context.Context, f func(ctx context.Context, s *api.Server) error) error {
	return command.WithServer(ctx, config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
		account, err := s.Signer.Connect(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to connect wallet")
		}

		if _, err := s.Balance.Refresh(ctx, account.Address); err != nil {
			log.Warn().Err(err).Str("address", account.Address.String()).Msg("Failed to load balance after connect")
		}

		return f(ctx, s)
	})
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal output")
	}

	//nolint:forbidigo // command output
	fmt.Println(string(out))

	return nil
}
