package httpadapter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	callerKey    contextKey = "caller"
)

const maxBodyBytes = 1 << 20

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDKey).(string); ok {
		return s
	}
	return ""
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", requestIDFromContext(r.Context())))
	})
}

// identify resolves the bearer token, if any, to the caller account. A
// present but invalid token is rejected; a missing one leaves the request
// anonymous.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := strings.TrimSpace(r.Header.Get("Authorization"))
		if auth == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			writeError(w, r, http.StatusUnauthorized, "Unauthenticated", "expected a bearer token")
			return
		}
		if h.verifier == nil {
			writeError(w, r, http.StatusUnauthorized, "Unauthenticated", "authentication is not configured")
			return
		}
		caller, err := h.verifier.Verify(strings.TrimSpace(auth[7:]))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "Unauthenticated", err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), callerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if callerFromContext(r.Context()).IsZero() {
			writeError(w, r, http.StatusUnauthorized, "Unauthenticated", "missing bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func callerFromContext(ctx context.Context) domain.Account {
	if a, ok := ctx.Value(callerKey).(domain.Account); ok {
		return a
	}
	return ""
}

// idempotent replays the stored response of a request that already ran
// with the same Idempotency-Key. Keys are scoped to the caller. Server
// errors release the key so the client may retry.
func (h *Handler) idempotent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
		if key == "" || h.idem == nil {
			next.ServeHTTP(w, r)
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeBodyError(w, r, err)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		scoped := callerFromContext(r.Context()).String() + ":" + key
		hash := requestHash(r, body)
		rec, err := h.idem.Reserve(r.Context(), scoped, hash, h.idemTTL)
		switch {
		case errors.Is(err, port.ErrIdempotencyConflict):
			writeError(w, r, http.StatusConflict, "IdempotencyConflict", err.Error())
			return
		case err != nil:
			h.logger.Error("idempotency reserve error", slog.Any("error", err))
			writeError(w, r, http.StatusInternalServerError, "Internal", "internal error")
			return
		case rec != nil:
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}

		var buf bytes.Buffer
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&buf)
		next.ServeHTTP(ww, r)

		// The request outcome is settled; store it even if the client left.
		ctx := context.WithoutCancel(r.Context())
		if ww.Status() >= http.StatusInternalServerError {
			if err = h.idem.Release(ctx, scoped); err != nil {
				h.logger.Error("idempotency release error", slog.Any("error", err))
			}
			return
		}
		if err = h.idem.Complete(ctx, scoped, ww.Status(), buf.Bytes(), h.idemTTL); err != nil {
			h.logger.Error("idempotency complete error", slog.Any("error", err))
		}
	})
}

func requestHash(r *http.Request, body []byte) string {
	sum := sha256.New()
	sum.Write([]byte(r.Method))
	sum.Write([]byte{0})
	sum.Write([]byte(r.URL.Path))
	sum.Write([]byte{0})
	sum.Write(body)
	return hex.EncodeToString(sum.Sum(nil))
}
