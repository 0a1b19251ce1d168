package common_test

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/api/handlers/common"
	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/test"
	"github/chapool/go-dapp/internal/wallet/ledger"
)

func TestGetReadyReadiness(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		require.Equal(t, "Ready.", res.Body.String())
	})
}

func TestGetReadyReadinessBroken(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		// forcefully remove an initialized component to check if ready state works
		s.Pipeline = nil

		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, common.StatusNotReady, res.Result().StatusCode)
		require.Equal(t, "Not ready.", res.Body.String())
	})
}

func TestGetHealthy(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "Ready.")
		assert.Contains(t, res.Body.String(), "last valid block height 1000")
		assert.Contains(t, res.Body.String(), "Wallet session: disconnected.")
	})
}

func TestGetHealthyLedgerDown(t *testing.T) {
	test.WithTestServerFakes(t, config.DefaultServiceConfigFromEnv(), func(s *api.Server, fakes test.Fakes) {
		fakes.Ledger.BlockhashErr = &ledger.NetworkError{Op: "getLatestBlockhash", Err: errors.New("connection refused")}

		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, common.StatusNotReady, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "unreachable")
	})
}

func TestGetMetrics(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		// one instrumented request so the http collectors have samples
		res := test.PerformRequest(t, s, "GET", "/api/v1/session", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "GET", "/metrics", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		body := res.Body.String()
		assert.Contains(t, body, "dapp_http_requests_total")
		assert.Contains(t, body, "go_goroutines")
	})
}
