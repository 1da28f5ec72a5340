package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/ec-storefront/internal/telemetry"
)

const defaultRetentionHours = 24

// TelemetryHandlers receives client-side metrics, errors and journey steps.
type TelemetryHandlers struct {
	monitor *telemetry.Monitor
}

func NewTelemetryHandlers(monitor *telemetry.Monitor) *TelemetryHandlers {
	return &TelemetryHandlers{monitor: monitor}
}

func (h *TelemetryHandlers) Register(r chi.Router) {
	r.Post("/telemetry/metrics", h.RecordMetric)
	r.Post("/telemetry/errors", h.RecordError)
	r.Post("/telemetry/journeys", h.TrackJourney)
}

func (h *TelemetryHandlers) RegisterAdmin(r chi.Router) {
	r.Get("/telemetry/summary", h.Summary)
	r.Get("/telemetry/errors", h.Errors)
	r.Post("/telemetry/cleanup", h.Cleanup)
}

type metricRequest struct {
	Name  string            `json:"name"`
	Value float64           `json:"value"`
	Tags  map[string]string `json:"tags,omitempty"`
}

func (h *TelemetryHandlers) RecordMetric(w http.ResponseWriter, r *http.Request) {
	var req metricRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, "name is required", http.StatusBadRequest)
		return
	}
	h.monitor.RecordMetric(r.Context(), req.Name, req.Value, req.Tags)
	w.WriteHeader(http.StatusAccepted)
}

type errorRequest struct {
	Message string         `json:"message"`
	Stack   string         `json:"stack,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// RecordError answers with the classified event, or 202 with no body when
// telemetry is disabled.
func (h *TelemetryHandlers) RecordError(w http.ResponseWriter, r *http.Request) {
	var req errorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		respondError(w, "message is required", http.StatusBadRequest)
		return
	}

	event := h.monitor.RecordError(r.Context(), req.Message, req.Stack, req.Context)
	if event == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

type journeyRequest struct {
	Step     string         `json:"step"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (h *TelemetryHandlers) TrackJourney(w http.ResponseWriter, r *http.Request) {
	var req journeyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Step == "" {
		respondError(w, "step is required", http.StatusBadRequest)
		return
	}
	recorded := h.monitor.TrackJourney(r.Context(), req.Step, req.Metadata)
	respondJSON(w, http.StatusAccepted, map[string]bool{"recorded": recorded})
}

func (h *TelemetryHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.monitor.PerformanceSummary())
}

func (h *TelemetryHandlers) Errors(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.monitor.Errors())
}

// Cleanup prunes events older than ?hours= (default 24).
func (h *TelemetryHandlers) Cleanup(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", defaultRetentionHours)
	respondJSON(w, http.StatusOK, map[string]int{"removed": h.monitor.Cleanup(hours)})
}
