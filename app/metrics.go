package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK     = "ok"
	resultFailed = "failed"
	resultBad    = "rejected"
)

type Metrics struct {
	Txs             *prometheus.CounterVec
	Height          prometheus.Gauge
	TotalStaked     prometheus.Gauge
	ActiveProposals prometheus.Gauge
	ProposalCount   prometheus.Gauge
}

// NewMetrics registers the app metrics with reg. A nil reg yields metrics that
// are updated but never exported.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Txs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_total",
			Help:      "Number of finalized txs by type and result",
		}, []string{"type", "result"}),
		Height: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "height",
			Help:      "Last committed height",
		}),
		TotalStaked: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_staked",
			Help:      "Tokens currently staked in the ledger",
		}),
		ActiveProposals: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_proposals",
			Help:      "Proposals currently open for voting",
		}),
		ProposalCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "proposals_total",
			Help:      "Proposals ever created",
		}),
	}
}
