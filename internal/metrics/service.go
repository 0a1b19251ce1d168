package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/wallet/signer"
)

// Namespace prefixes every metric of the service.
const Namespace = "dapp"

const (
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

// Service owns a private registry so several servers (tests) can coexist in one process.
type Service struct {
	Registry *prometheus.Registry

	operations          *prometheus.CounterVec
	confirmationLatency *prometheus.HistogramVec
	signerSessions      *prometheus.CounterVec
	balance             prometheus.Gauge
}

func New(cfg config.Server) (*Service, error) {
	registry := prometheus.NewRegistry()

	s := &Service{
		Registry: registry,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "pipeline",
			Name:      "operations_total",
			Help:      "Ledger operations by kind and outcome.",
		}, []string{"operation", "outcome"}),
		confirmationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   Namespace,
			Subsystem:   "pipeline",
			Name:        "confirmation_seconds",
			Help:        "Time from submission until the requested commitment was observed.",
			Buckets:     []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90},
			ConstLabels: prometheus.Labels{"cluster": cfg.Ledger.Cluster},
		}, []string{"operation"}),
		signerSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "signer",
			Name:      "sessions_total",
			Help:      "Wallet session protocol calls by action and outcome.",
		}, []string{"action", "outcome"}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "session",
			Name:      "balance_lamports",
			Help:      "Last observed balance of the connected account.",
		}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.operations,
		s.confirmationLatency,
		s.signerSessions,
		s.balance,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Service) ObserveOperation(operation string, outcome string) {
	s.operations.WithLabelValues(operation, outcome).Inc()
}

func (s *Service) ObserveConfirmation(operation string, took time.Duration) {
	s.confirmationLatency.WithLabelValues(operation).Observe(took.Seconds())
}

func (s *Service) ObserveSignerCall(action string, outcome string) {
	s.signerSessions.WithLabelValues(action, outcome).Inc()
}

func (s *Service) SetBalance(lamports uint64) {
	s.balance.Set(float64(lamports))
}

// SignerOutcome classifies the result of a wallet session call.
func SignerOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, signer.ErrAuthorizationFailed),
		errors.Is(err, signer.ErrReauthorizationFailed),
		errors.Is(err, signer.ErrNotSigned):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
