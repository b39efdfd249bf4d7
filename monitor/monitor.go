// monitor/monitor.go
package monitor

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thesooraj/HangMan-Project/logger"
)

type Metrics struct {
	Turns       prometheus.Counter
	Timeouts    prometheus.Counter
	Guesses     *prometheus.CounterVec
	Games       *prometheus.CounterVec
	LivesLeft   prometheus.Gauge
	ReadLatency prometheus.Histogram
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Turns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Number of turns played",
		}),
		Timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turn_timeouts_total",
			Help:      "Number of turns that ran out of time",
		}),
		Guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guesses_total",
			Help:      "Guesses by kind (letter, full) and result (hit, miss, invalid)",
		}, []string{"kind", "result"}),
		Games: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_total",
			Help:      "Finished rounds by outcome",
		}, []string{"outcome"}),
		LivesLeft: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lives_left",
			Help:      "Lives left in the current round",
		}),
		ReadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "input_wait_seconds",
			Help:      "Time spent waiting for the player's input",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
	}

	reg.MustRegister(
		m.Turns,
		m.Timeouts,
		m.Guesses,
		m.Games,
		m.LivesLeft,
		m.ReadLatency,
	)

	return m
}

// Monitor owns a private registry so several monitors can coexist in tests.
type Monitor struct {
	metrics  *Metrics
	registry *prometheus.Registry
	server   *http.Server
}

func NewMonitor(namespace string) *Monitor {
	reg := prometheus.NewRegistry()
	return &Monitor{
		metrics:  NewMetrics(namespace, reg),
		registry: reg,
	}
}

func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// StartServer serves /metrics on addr in the background.
func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	m.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("Metrics server stopped: %v", err)
		}
	}()
	logger.Log.Infof("Metrics listening on %s", addr)
}

func (m *Monitor) Close() error {
	if m.server == nil {
		return nil
	}
	return m.server.Close()
}

func (m *Monitor) IncTurns() {
	m.metrics.Turns.Inc()
}

func (m *Monitor) IncTimeouts() {
	m.metrics.Timeouts.Inc()
}

func (m *Monitor) ObserveGuess(kind, result string) {
	m.metrics.Guesses.WithLabelValues(kind, result).Inc()
}

func (m *Monitor) ObserveGame(outcome string) {
	m.metrics.Games.WithLabelValues(outcome).Inc()
}

func (m *Monitor) SetLivesLeft(lives int) {
	m.metrics.LivesLeft.Set(float64(lives))
}

func (m *Monitor) ObserveReadLatency(duration time.Duration) {
	m.metrics.ReadLatency.Observe(duration.Seconds())
}
