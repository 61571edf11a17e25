// Package metrics exposes Prometheus counters for command outcomes and interaction traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tjbot/internal/domain"
)

// Recorder counts command outcomes and verified interactions.
type Recorder struct {
	registry     *prometheus.Registry
	outcomes     *prometheus.CounterVec
	interactions *prometheus.CounterVec
}

// NewRecorder registers the bot's collectors, plus Go and process collectors, on a fresh registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	r := &Recorder{
		registry: registry,
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tjbot",
			Name:      "command_outcomes_total",
			Help:      "Terminal outcomes of slash commands.",
		}, []string{"command", "subcommand", "outcome"}),
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tjbot",
			Name:      "interactions_total",
			Help:      "Interactions received, by type and signature result.",
		}, []string{"type", "verified"}),
	}
	registry.MustRegister(
		r.outcomes,
		r.interactions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordOutcome implements domain.OutcomeRecorder.
func (r *Recorder) RecordOutcome(command, subcommand string, outcome domain.Outcome) {
	r.outcomes.WithLabelValues(command, subcommand, string(outcome)).Inc()
}

// RecordInteraction counts one received interaction.
func (r *Recorder) RecordInteraction(kind string, verified bool) {
	label := "false"
	if verified {
		label = "true"
	}
	r.interactions.WithLabelValues(kind, label).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

var _ domain.OutcomeRecorder = (*Recorder)(nil)
