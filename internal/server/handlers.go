package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/maskd-io/maskd/internal/cache"
	"github.com/maskd-io/maskd/internal/config"
	"github.com/maskd-io/maskd/internal/events"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// handleInfo handles info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	masker, mc := s.snapshot()
	info := map[string]any{
		"name":            "maskd",
		"strategy":        mc.Strategy,
		"rules":           len(masker.Detector().Registry().All()),
		"cache_enabled":   s.cache != nil,
		"uptime":          time.Since(s.started).String(),
		"total_requests":  s.totalRequests.Load(),
		"total_detected":  s.totalDetections.Load(),
		"event_feed_path": s.config.Events.Path,
	}

	writeJSON(w, http.StatusOK, info)
}

// handleMask masks PII in the posted JSON value and returns the masked
// value. Results are served from the Redis cache when an identical payload
// was masked under an identical configuration.
func (s *Server) handleMask(w http.ResponseWriter, r *http.Request) {
	requestID := getRequestID(r.Context())
	log := s.logger.WithRequestID(requestID)
	masker, mc := s.snapshot()

	body, value, ok := s.readPayload(w, r, log)
	if !ok {
		return
	}

	fingerprint := maskFingerprint(mc)
	if s.cache != nil {
		if entry, hit := s.cache.Get(r.Context(), fingerprint, string(body)); hit {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(entry.Masked))
			return
		}
	}

	start := time.Now()
	report := masker.Analyze(value)
	masked := masker.Mask(value)
	elapsed := time.Since(start)

	response, err := json.Marshal(masked)
	if err != nil {
		log.Error("Failed to encode masked value", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	if report.TotalMatches > 0 {
		s.totalDetections.Add(int64(report.TotalMatches))
		log.Info("PII masked",
			zap.Int("matches", report.TotalMatches),
			zap.Any("patterns", report.Patterns),
			zap.Duration("duration", elapsed),
		)

		s.hub.BroadcastEvent(events.Event{
			Type:      events.EventTypeDetection,
			Timestamp: time.Now(),
			RequestID: requestID,
			Data: events.DetectionEvent{
				RequestID:    requestID,
				Path:         r.URL.Path,
				ClientIP:     clientIP(r),
				TotalMatches: report.TotalMatches,
				Patterns:     report.Patterns,
				Categories:   report.Categories,
				Strategy:     string(mc.Strategy),
				ProcessingMS: float64(elapsed.Nanoseconds()) / 1e6,
			},
		})
	}

	if s.cache != nil {
		entry := &cache.Entry{Masked: string(response), FindingCount: report.TotalMatches}
		if err := s.cache.Store(r.Context(), fingerprint, string(body), entry); err != nil {
			log.Warn("Failed to cache masked result", zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

// handleAnalyze reports detection statistics for the posted JSON value
// without masking it.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	requestID := getRequestID(r.Context())
	log := s.logger.WithRequestID(requestID)
	masker := s.Masker()

	_, value, ok := s.readPayload(w, r, log)
	if !ok {
		return
	}

	report := masker.Analyze(value)
	if report.TotalMatches > 0 {
		s.totalDetections.Add(int64(report.TotalMatches))
	}

	writeJSON(w, http.StatusOK, report)
}

// readPayload decodes the request body into the generic value model,
// enforcing the configured size cap. On failure it writes the error
// response itself and reports ok=false.
func (s *Server) readPayload(w http.ResponseWriter, r *http.Request, log interface{ Error(string, ...zap.Field) }) ([]byte, any, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Server.MaxBodyBytes)

	var value any
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&value); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return nil, nil, false
	}

	// Re-serialize for the cache key so formatting differences in the
	// incoming JSON don't fragment the cache.
	body, err := json.Marshal(value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return nil, nil, false
	}
	return body, value, true
}

// maskFingerprint identifies a set of masking options for cache keys.
func maskFingerprint(mc config.MaskingConfig) string {
	return fmt.Sprintf("%s|%t|%s|%t|%t|%g|%d|%d",
		mc.Strategy, mc.PreserveFormat, mc.MaskCharacter, mc.PartialMask,
		mc.PreserveDomains, mc.ConfidenceThreshold, len(mc.CustomPatterns), len(mc.Whitelist))
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
