package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/metrics"
	"github.com/iho/sharefund/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	idempotencyTTL   = 24 * time.Hour
	processingMarker = "processing"
	anonymousScope   = "anonymous"
)

// cachedResponse is what the store keeps for a finished request.
type cachedResponse struct {
	Status      int             `json:"status"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// IdempotencyMiddleware replays the first successful response for a repeated
// Idempotency-Key, so a retried purchase never buys twice. Keys are scoped to
// the authenticated user; it must run after AuthMiddleware.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, logger zerolog.Logger, m *metrics.Metrics) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store, logger: logger, metrics: m}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		scoped := idempotencyScope(r.Context()) + " " + r.Method + " " + r.URL.Path + " " + key

		exists, cached, err := m.store.CheckAndSet(r.Context(), scoped, []byte(processingMarker), idempotencyTTL)
		if err != nil {
			m.logger.Error().Err(err).Str("key", key).Msg("idempotency check failed")
			writeError(w, http.StatusInternalServerError, "internal", "idempotency check failed")
			return
		}

		if exists {
			if string(cached) == processingMarker {
				writeError(w, http.StatusConflict, "idempotency_in_progress", "a request with this key is still being processed")
				return
			}
			m.replay(w, cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// The outcome is stored even if the caller has gone away.
		ctx := context.WithoutCancel(r.Context())
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			envelope, err := json.Marshal(cachedResponse{
				Status:      recorder.statusCode,
				ContentType: recorder.Header().Get("Content-Type"),
				Body:        json.RawMessage(recorder.body.Bytes()),
			})
			if err == nil {
				err = m.store.Update(ctx, scoped, envelope, idempotencyTTL)
			}
			if err != nil {
				m.logger.Error().Err(err).Str("key", key).Msg("failed to store idempotent response")
			}
			return
		}

		if err := m.store.Release(ctx, scoped); err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
		}
	})
}

// idempotencyScope names the caller owning a key.
func idempotencyScope(ctx context.Context) string {
	if user, ok := domain.UserFromContext(ctx); ok && user.ID != "" {
		return "user:" + user.ID
	}
	return anonymousScope
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, raw []byte) {
	var cached cachedResponse
	if err := json.Unmarshal(raw, &cached); err != nil || cached.Status == 0 {
		writeError(w, http.StatusInternalServerError, "internal", "stored response is unreadable")
		return
	}

	if m.metrics != nil {
		m.metrics.IdempotentReplays.Inc()
	}

	if cached.ContentType != "" {
		w.Header().Set("Content-Type", cached.ContentType)
	}
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(cached.Status)
	w.Write(cached.Body)
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
