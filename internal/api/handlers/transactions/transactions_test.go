package transactions_test

import (
	"net/http"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/api/httperrors"
	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/test"
	"github/chapool/go-dapp/internal/types"
	"github/chapool/go-dapp/internal/wallet/ledger"
	"github/chapool/go-dapp/internal/wallet/signer"
	"github/chapool/go-dapp/internal/wallet/transaction"
)

func withConnectedServer(t *testing.T, closure func(s *api.Server, fakes test.Fakes)) {
	t.Helper()

	test.WithTestServerFakes(t, config.DefaultServiceConfigFromEnv(), func(s *api.Server, fakes test.Fakes) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/session/connect", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		closure(s, fakes)
	})
}

func TestPostMemoDefaultMessage(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		fakes.Ledger.SetBalance(fakes.Wallet.PublicKey(), 1_000_000_000)

		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", map[string]interface{}{}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var result types.TransactionResult
		test.ParseResponseAndValidate(t, res, &result)

		assert.Equal(t, types.TransactionResultOperationMemo, swag.StringValue(result.Operation))
		assert.Equal(t, types.TransactionResultCommitmentConfirmed, swag.StringValue(result.Commitment))
		assert.Equal(t, int64(42), result.Slot)
		assert.Contains(t, swag.StringValue(result.ExplorerURL), "/tx/"+swag.StringValue(result.Signature))
		assert.Equal(t, int64(1_000_000_000-5000), swag.Int64Value(result.BalanceLamports))

		sent := fakes.Ledger.Sent()
		require.Len(t, sent, 1)

		tx := sent[0]
		require.Len(t, tx.Message.Instructions, 1)
		program, err := tx.Message.Program(tx.Message.Instructions[0].ProgramIDIndex)
		require.NoError(t, err)
		assert.Equal(t, transaction.MemoProgramID, program)
		assert.Equal(t, "Hello Solana", string(tx.Message.Instructions[0].Data))
		assert.Equal(t, swag.StringValue(result.Signature), tx.Signatures[0].String())
	})
}

func TestPostMemoCustomMessage(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", map[string]interface{}{
			"message": "gm",
		}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		sent := fakes.Ledger.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "gm", string(sent[0].Message.Instructions[0].Data))
	})
}

func TestPostMemoWithoutBody(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		require.Len(t, fakes.Ledger.Sent(), 1)
	})
}

func TestPostMemoInvalidMessage(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", map[string]interface{}{
			"message": "",
		}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
		assert.Empty(t, fakes.Ledger.Sent())
	})
}

func TestPostMemoBlankMessage(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", map[string]interface{}{
			"message": "   ",
		}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
		assert.NotContains(t, fakes.Wallet.Calls(), "sign_transactions")
	})
}

func TestPostMemoWithoutSession(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrConflictNoActiveSession)
	})
}

func TestPostMemoLedgerError(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		fakes.Ledger.ExecutionErr = map[string]interface{}{
			"InstructionError": []interface{}{0, map[string]interface{}{"Custom": 1}},
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", nil, nil)
		body := test.RequireHTTPError(t, res, httperrors.ErrUnprocessableLedger)

		sent := fakes.Ledger.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, sent[0].Signatures[0].String(), body["signature"])
		assert.Equal(t, `{"InstructionError":[0,{"Custom":1}]}`, body["detail"])
		assert.Equal(t, map[string]interface{}{
			"InstructionError": []interface{}{float64(0), map[string]interface{}{"Custom": float64(1)}},
		}, body["details"])
	})
}

func TestPostMemoConfirmationTimeout(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		sig := solana.Signature{1, 2, 3}
		fakes.Ledger.ConfirmErr = &ledger.ConfirmationTimeoutError{
			Signature:  sig,
			Commitment: ledger.CommitmentConfirmed,
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", nil, nil)
		body := test.RequireHTTPError(t, res, httperrors.ErrGatewayTimeoutConfirmation)
		assert.Equal(t, sig.String(), body["signature"])
	})
}

func TestPostMemoSubmissionRejected(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		fakes.Ledger.SendErr = &ledger.SubmissionRejectedError{Reason: "Blockhash not found", Code: -32002}

		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", nil, nil)
		body := test.RequireHTTPError(t, res, httperrors.ErrUnprocessableSubmission)
		assert.Equal(t, "Blockhash not found", body["detail"])
	})
}

func TestPostMemoLedgerUnreachable(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		fakes.Ledger.BlockhashErr = &ledger.NetworkError{Op: "getLatestBlockhash", Err: errors.New("connection refused")}

		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrServiceUnavailableLedger)
	})
}

func TestPostMemoReauthorizationFailed(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		fakes.Wallet.ReauthorizeErr = errors.Wrap(signer.ErrAuthorizationFailed, "token expired")

		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrUnauthorizedReauthorization)

		assert.False(t, s.Store.Snapshot().Connected())
		assert.NotContains(t, fakes.Wallet.Calls(), "sign_transactions")
	})
}

func TestPostMemoSigningDeclined(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		fakes.Wallet.SignErr = errors.Wrap(signer.ErrNotSigned, "user declined")

		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrForbiddenSigningDeclined)
		assert.Empty(t, fakes.Ledger.Sent())
	})
}

func TestPostMemoTamperedPayload(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		fakes.Wallet.SignHook = func(payloads [][]byte) ([][]byte, error) {
			signed, err := test.SignPayloads(fakes.Wallet.Key, payloads)
			if err != nil {
				return nil, err
			}
			signed[0][len(signed[0])-1] ^= 0xff
			return signed, nil
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/memo", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrBadGatewaySignedPayload)
		assert.Empty(t, fakes.Ledger.Sent())
	})
}

func TestPostAirdropDefaultAmount(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/airdrop", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var result types.TransactionResult
		test.ParseResponseAndValidate(t, res, &result)

		assert.Equal(t, types.TransactionResultOperationAirdrop, swag.StringValue(result.Operation))
		assert.Equal(t, types.TransactionResultCommitmentFinalized, swag.StringValue(result.Commitment))
		assert.Equal(t, int64(s.Config.Pipeline.AirdropLamports), swag.Int64Value(result.BalanceLamports)) //nolint:gosec

		confirms := fakes.Ledger.Confirmations()
		require.Len(t, confirms, 1)
		assert.Equal(t, ledger.CommitmentFinalized, confirms[0].Commitment)

		assert.Equal(t, s.Config.Pipeline.AirdropLamports, s.Store.Snapshot().Balance)
	})
}

func TestPostAirdropCustomAmount(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, _ test.Fakes) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/airdrop", map[string]interface{}{
			"lamports": 2500,
		}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var result types.TransactionResult
		test.ParseResponseAndValidate(t, res, &result)
		assert.Equal(t, int64(2500), swag.Int64Value(result.BalanceLamports))
	})
}

func TestPostAirdropInvalidAmount(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		for _, lamports := range []int64{0, -1} {
			res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/airdrop", map[string]interface{}{
				"lamports": lamports,
			}, nil)
			require.Equal(t, http.StatusBadRequest, res.Result().StatusCode, "lamports %d", lamports)
		}
		assert.Empty(t, fakes.Ledger.Confirmations())
	})
}

func TestPostAirdropFaucetRejected(t *testing.T) {
	withConnectedServer(t, func(s *api.Server, fakes test.Fakes) {
		fakes.Ledger.AirdropErr = &ledger.SubmissionRejectedError{Reason: "airdrop limit reached", Code: 429}

		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/airdrop", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrUnprocessableSubmission)

		assert.Equal(t, uint64(0), s.Store.Snapshot().Balance)
	})
}

func TestPostAirdropWithoutSession(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/transactions/airdrop", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrConflictNoActiveSession)
	})
}
