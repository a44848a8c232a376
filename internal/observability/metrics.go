package observability

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

// Metrics exposes pipeline and safety counters in Prometheus text format.
// All methods are nil-safe so call sites never guard on whether metrics
// are enabled.
type Metrics struct {
	turnsTotal   *CounterVec
	turnsBlocked *CounterVec
	stageLatency *HistogramVec
	stageErrors  *CounterVec
	evaluations  *CounterVec
	cacheHits    *Counter
	cacheMisses  *Counter
	modelLatency *HistogramVec
	inflight     *Gauge
}

var (
	metricsOnce sync.Once
	instance    *Metrics
)

func NewMetrics(log *logger.Logger) *Metrics {
	metricsOnce.Do(func() {
		if !metricsEnabled() {
			return
		}
		instance = &Metrics{
			turnsTotal:   NewCounterVec("sl_turns_total", "Tutoring turns processed by final status.", []string{"status"}),
			turnsBlocked: NewCounterVec("sl_turns_blocked_total", "Turns blocked by safety category and severity.", []string{"category", "severity"}),
			stageLatency: NewHistogramVec(
				"sl_pipeline_stage_duration_seconds",
				"Pipeline stage duration in seconds.",
				[]string{"stage", "status"},
				[]float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
			),
			stageErrors: NewCounterVec("sl_pipeline_stage_error_total", "Pipeline stage failures by stage.", []string{"stage"}),
			evaluations: NewCounterVec("sl_safety_evaluations_total", "Safety evaluations by verdict.", []string{"verdict"}),
			cacheHits:   NewCounter("sl_safety_cache_hit_total", "Safety evaluation cache hits."),
			cacheMisses: NewCounter("sl_safety_cache_miss_total", "Safety evaluation cache misses."),
			modelLatency: NewHistogramVec(
				"sl_model_request_duration_seconds",
				"Model client request duration in seconds.",
				[]string{"status"},
				[]float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			),
			inflight: NewGauge("sl_turns_inflight", "Turns currently being processed."),
		}
		if log != nil {
			log.Info("observability metrics enabled")
		}
	})
	return instance
}

// Get returns the process-wide metrics instance, nil when disabled.
func Get() *Metrics { return instance }

func metricsEnabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("METRICS_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func (m *Metrics) IncTurn(status string) {
	if m == nil {
		return
	}
	m.turnsTotal.Inc(status)
}

func (m *Metrics) IncBlocked(category, severity string) {
	if m == nil {
		return
	}
	m.turnsBlocked.Inc(category, severity)
}

func (m *Metrics) ObserveStage(stage, status string, seconds float64) {
	if m == nil {
		return
	}
	m.stageLatency.Observe(seconds, stage, status)
	if status == "error" {
		m.stageErrors.Inc(stage)
	}
}

func (m *Metrics) IncEvaluation(safe bool) {
	if m == nil {
		return
	}
	verdict := "safe"
	if !safe {
		verdict = "unsafe"
	}
	m.evaluations.Inc(verdict)
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) ObserveModelRequest(status string, seconds float64) {
	if m == nil {
		return
	}
	m.modelLatency.Observe(seconds, status)
}

func (m *Metrics) TurnStarted() {
	if m == nil {
		return
	}
	m.inflight.Inc()
}

func (m *Metrics) TurnFinished() {
	if m == nil {
		return
	}
	m.inflight.Dec()
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	collectors := []interface{ WritePrometheus(io.Writer) error }{
		m.turnsTotal,
		m.turnsBlocked,
		m.stageLatency,
		m.stageErrors,
		m.evaluations,
		m.cacheHits,
		m.cacheMisses,
		m.modelLatency,
		m.inflight,
	}
	for _, c := range collectors {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}
