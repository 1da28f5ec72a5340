package telemetry

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventMetric  = "telemetry.metric"
	EventError   = "telemetry.error"
	EventJourney = "telemetry.journey"
)

// Config is passed at construction; the monitor never reads the environment.
type Config struct {
	Enabled     bool
	SampleRate  float64
	Environment string
}

// Upstream receives a copy of every recorded event.
type Upstream interface {
	PublishEvent(ctx context.Context, eventType, key string, payload any) error
}

type PerformanceMetric struct {
	Name      string            `json:"name"`
	Value     float64           `json:"value"`
	Tags      map[string]string `json:"tags,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

type ErrorEvent struct {
	ID          string         `json:"id"`
	Message     string         `json:"message"`
	Stack       string         `json:"stack,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
	Severity    Severity       `json:"severity"`
	Environment string         `json:"environment"`
	Timestamp   time.Time      `json:"timestamp"`
}

type JourneyEvent struct {
	Step      string         `json:"step"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type MetricSummary struct {
	Count int     `json:"count"`
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Monitor buffers metrics, errors and journey steps in memory. Buffers grow
// until Cleanup is called.
type Monitor struct {
	mu       sync.Mutex
	cfg      Config
	upstream Upstream
	log      *zap.SugaredLogger

	metrics  []PerformanceMetric
	errors   []ErrorEvent
	journeys []JourneyEvent

	now    func() time.Time
	sample func() float64
}

// NewMonitor creates a monitor. upstream may be nil.
func NewMonitor(cfg Config, upstream Upstream, log *zap.SugaredLogger) *Monitor {
	return &Monitor{
		cfg:      cfg,
		upstream: upstream,
		log:      log,
		now:      time.Now,
		sample:   rand.Float64,
	}
}

func (m *Monitor) RecordMetric(ctx context.Context, name string, value float64, tags map[string]string) {
	if !m.cfg.Enabled {
		return
	}
	metric := PerformanceMetric{Name: name, Value: value, Tags: tags, Timestamp: m.now()}

	m.mu.Lock()
	m.metrics = append(m.metrics, metric)
	m.mu.Unlock()

	m.forward(ctx, EventMetric, name, metric)
}

// RecordError classifies and stores an error. It returns nil when the
// monitor is disabled.
func (m *Monitor) RecordError(ctx context.Context, message, stack string, errCtx map[string]any) *ErrorEvent {
	if !m.cfg.Enabled {
		return nil
	}
	event := ErrorEvent{
		ID:          uuid.New().String(),
		Message:     message,
		Stack:       stack,
		Context:     errCtx,
		Severity:    ClassifySeverity(message, stack),
		Environment: m.cfg.Environment,
		Timestamp:   m.now(),
	}

	m.mu.Lock()
	m.errors = append(m.errors, event)
	m.mu.Unlock()

	m.log.Warnw("client error recorded", "severity", event.Severity, "message", message)
	m.forward(ctx, EventError, event.ID, event)
	return &event
}

// TrackJourney records a step for a SampleRate fraction of calls and
// reports whether it was kept.
func (m *Monitor) TrackJourney(ctx context.Context, step string, meta map[string]any) bool {
	if !m.cfg.Enabled || m.sample() >= m.cfg.SampleRate {
		return false
	}
	event := JourneyEvent{Step: step, Metadata: meta, Timestamp: m.now()}

	m.mu.Lock()
	m.journeys = append(m.journeys, event)
	m.mu.Unlock()

	m.forward(ctx, EventJourney, step, event)
	return true
}

func (m *Monitor) forward(ctx context.Context, eventType, key string, payload any) {
	if m.upstream == nil {
		return
	}
	if err := m.upstream.PublishEvent(ctx, eventType, key, payload); err != nil {
		m.log.Warnw("telemetry upstream failed", "event", eventType, "err", err)
	}
}

// Cleanup drops events older than retentionHours and returns how many were removed.
func (m *Monitor) Cleanup(retentionHours int) int {
	cutoff := m.now().Add(-time.Duration(retentionHours) * time.Hour)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	m.metrics, removed = prune(m.metrics, removed, func(e PerformanceMetric) bool { return e.Timestamp.Before(cutoff) })
	m.errors, removed = prune(m.errors, removed, func(e ErrorEvent) bool { return e.Timestamp.Before(cutoff) })
	m.journeys, removed = prune(m.journeys, removed, func(e JourneyEvent) bool { return e.Timestamp.Before(cutoff) })
	return removed
}

func prune[T any](events []T, removed int, expired func(T) bool) ([]T, int) {
	kept := events[:0]
	for _, e := range events {
		if expired(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	return kept, removed
}

// PerformanceSummary aggregates recorded metrics by name.
func (m *Monitor) PerformanceSummary() map[string]MetricSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary := make(map[string]MetricSummary)
	sums := make(map[string]float64)
	for _, metric := range m.metrics {
		s, ok := summary[metric.Name]
		if !ok {
			s = MetricSummary{Min: math.Inf(1), Max: math.Inf(-1)}
		}
		s.Count++
		s.Min = math.Min(s.Min, metric.Value)
		s.Max = math.Max(s.Max, metric.Value)
		sums[metric.Name] += metric.Value
		summary[metric.Name] = s
	}
	for name, s := range summary {
		s.Avg = sums[name] / float64(s.Count)
		summary[name] = s
	}
	return summary
}

// Metrics returns a copy of the buffered metrics, oldest first.
func (m *Monitor) Metrics() []PerformanceMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PerformanceMetric(nil), m.metrics...)
}

// Errors returns a copy of the buffered errors, newest first.
func (m *Monitor) Errors() []ErrorEvent {
	m.mu.Lock()
	out := append([]ErrorEvent(nil), m.errors...)
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

func (m *Monitor) Journeys() []JourneyEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]JourneyEvent(nil), m.journeys...)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (m *Monitor) RunCleanup(ctx context.Context, interval time.Duration, retentionHours int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Cleanup(retentionHours); n > 0 {
				m.log.Debugw("telemetry cleanup", "removed", n)
			}
		}
	}
}
