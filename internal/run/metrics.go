package run

import (
	"errors"
	"net/http"

	"alexabot/internal/assistant"
	"alexabot/internal/intent"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	reg     *prometheus.Registry
	turns   *prometheus.CounterVec
	actions *prometheus.CounterVec
	dropped prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		reg: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alexabot_turns_total",
			Help: "Handled utterances by intent and outcome.",
		}, []string{"intent", "outcome"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alexabot_actions_total",
			Help: "Opener actions by kind and result.",
		}, []string{"kind", "result"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alexabot_turns_dropped_total",
			Help: "Utterances rejected because the turn queue was full.",
		}),
	}
	m.reg.MustRegister(m.turns, m.actions, m.dropped)
	// Zero series up front so rate() works from the first scrape.
	for _, i := range intent.All() {
		for _, k := range []assistant.Kind{assistant.OK, assistant.Recoverable, assistant.Unexpected} {
			m.turns.WithLabelValues(i.String(), k.String())
		}
	}
	return m
}

func (m *metrics) observeTurn(out assistant.Outcome) {
	m.turns.WithLabelValues(out.Command.Intent.String(), out.Kind.String()).Inc()
}

func (m *metrics) observeAction(kind assistant.ActionKind, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.actions.WithLabelValues(kind.String(), result).Inc()
}

func (s *Server) metricsServe(ctxDone <-chan struct{}, addr string, logger interface {
	Infof(string, ...any)
	Warnf(string, ...any)
}) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.reg, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		<-ctxDone
		_ = server.Close()
	}()
	logger.Infof("metrics listening on http://%s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warnf("metrics server: %v", err)
	}
}
