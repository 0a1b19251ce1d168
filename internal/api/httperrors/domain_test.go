package httperrors_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-dapp/internal/api/httperrors"
	"github/chapool/go-dapp/internal/types"
	"github/chapool/go-dapp/internal/wallet/address"
	"github/chapool/go-dapp/internal/wallet/ledger"
	"github/chapool/go-dapp/internal/wallet/pipeline"
	"github/chapool/go-dapp/internal/wallet/session"
	"github/chapool/go-dapp/internal/wallet/signer"
	"github/chapool/go-dapp/internal/wallet/walletrpc"
)

func TestFromDomain(t *testing.T) {
	sig := solana.Signature{7}

	tests := []struct {
		name   string
		err    error
		status int
		kind   types.PublicHTTPErrorType
	}{
		{"no session", session.ErrNoActiveSession, http.StatusConflict, types.PublicHTTPErrorTypeNOACTIVESESSION},
		{"busy", errors.Wrap(signer.ErrSignerBusy, "connect"), http.StatusConflict, types.PublicHTTPErrorTypeSIGNERBUSY},
		{"signer down", errors.Wrap(signer.ErrSignerUnavailable, "open_session"), http.StatusServiceUnavailable, types.PublicHTTPErrorTypeSIGNERUNAVAILABLE},
		{"authorize", errors.Wrap(signer.ErrAuthorizationFailed, "declined"), http.StatusUnauthorized, types.PublicHTTPErrorTypeAUTHORIZATIONFAILED},
		{"reauthorize", errors.Wrap(signer.ErrReauthorizationFailed, "authorization failed"), http.StatusUnauthorized, types.PublicHTTPErrorTypeREAUTHORIZATIONFAILED},
		{"not signed", signer.ErrNotSigned, http.StatusForbidden, types.PublicHTTPErrorTypeSIGNINGDECLINED},
		{"count mismatch", errors.Wrap(signer.ErrSignatureCountMismatch, "sent 1, received 2"), http.StatusBadGateway, types.PublicHTTPErrorTypeSIGNEDPAYLOADMISMATCH},
		{"message mismatch", pipeline.ErrSignedMessageMismatch, http.StatusBadGateway, types.PublicHTTPErrorTypeSIGNEDPAYLOADMISMATCH},
		{"address", errors.Wrap(address.ErrInvalidAddressEncoding, "31 bytes"), http.StatusBadGateway, types.PublicHTTPErrorTypeINVALIDADDRESSENCODING},
		{"protocol", errors.Wrap(walletrpc.ErrInvalidResponse, "authorize"), http.StatusBadGateway, types.PublicHTTPErrorTypeSIGNERPROTOCOLERROR},
		{"network", errors.Wrap(&ledger.NetworkError{Op: "getBalance", Err: errors.New("eof")}, "refresh"), http.StatusServiceUnavailable, types.PublicHTTPErrorTypeNETWORKERROR},
		{"rejected", &ledger.SubmissionRejectedError{Reason: "stale blockhash"}, http.StatusUnprocessableEntity, types.PublicHTTPErrorTypeSUBMISSIONREJECTED},
		{"timeout", &ledger.ConfirmationTimeoutError{Signature: sig}, http.StatusGatewayTimeout, types.PublicHTTPErrorTypeCONFIRMATIONTIMEOUT},
		{"ledger", &pipeline.LedgerError{Operation: "memo", Signature: sig, Details: "boom"}, http.StatusUnprocessableEntity, types.PublicHTTPErrorTypeLEDGERERROR},
		{"empty memo", pipeline.ErrEmptyMemo, http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDREQUEST},
		{"amount", pipeline.ErrInvalidAmount, http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDREQUEST},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he, ok := httperrors.FromDomain(tt.err)
			require.True(t, ok)
			assert.Equal(t, int64(tt.status), swag.Int64Value(he.Code))
			assert.Equal(t, tt.kind, *he.Type)
			assert.Equal(t, tt.err, he.Internal)
		})
	}

	_, ok := httperrors.FromDomain(errors.New("unknown"))
	assert.False(t, ok)
}

func TestFromDomainDoesNotMutateTemplates(t *testing.T) {
	sig := solana.Signature{9}

	he, ok := httperrors.FromDomain(&ledger.ConfirmationTimeoutError{Signature: sig})
	require.True(t, ok)
	assert.Equal(t, sig.String(), he.AdditionalData["signature"])

	assert.Empty(t, httperrors.ErrGatewayTimeoutConfirmation.AdditionalData)
	assert.Nil(t, httperrors.ErrGatewayTimeoutConfirmation.Internal)
}

func TestHTTPErrorJSON(t *testing.T) {
	he := httperrors.ErrGatewayTimeoutConfirmation.WithData("signature", "abc")

	raw, err := json.Marshal(he)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.EqualValues(t, http.StatusGatewayTimeout, body["status"])
	assert.Equal(t, string(types.PublicHTTPErrorTypeCONFIRMATIONTIMEOUT), body["type"])
	assert.Equal(t, "abc", body["signature"])

	// additional data never overrides the public fields
	raw, err = json.Marshal(he.WithData("status", 200))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.EqualValues(t, http.StatusGatewayTimeout, body["status"])
}

func TestHTTPErrorString(t *testing.T) {
	he := httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Bad Request", "missing field").
		WithInternal(errors.New("cause")).
		WithData("key", "value")

	assert.Equal(t, "HTTPError 400 (generic): Bad Request - missing field, cause. Additional: key=value", he.Error())
}

func TestFromDomainLedgerDetailIsJSON(t *testing.T) {
	details := map[string]interface{}{
		"InstructionError": []interface{}{0, map[string]interface{}{"Custom": 1}},
	}

	he, ok := httperrors.FromDomain(&pipeline.LedgerError{Operation: "memo", Signature: solana.Signature{7}, Details: details})
	require.True(t, ok)
	assert.Equal(t, `{"InstructionError":[0,{"Custom":1}]}`, he.Detail)
	assert.Equal(t, details, he.AdditionalData["details"])
}
