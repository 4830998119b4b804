package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/anu235shka/movies-task/internal/api/metrics"
	redisstore "github.com/anu235shka/movies-task/internal/infrastructure/db/redis"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 255
)

// IdempotencyStore persists responses keyed by a client-chosen key.
type IdempotencyStore interface {
	Begin(ctx context.Context, key string) (*redisstore.StoredResponse, error)
	Complete(ctx context.Context, key string, resp redisstore.StoredResponse) error
	Release(ctx context.Context, key string) error
}

// Idempotency replays the first response for a repeated Idempotency-Key.
// Keys are scoped to the authenticated user, so it must run after Auth.
// Reusing a key with a different body is rejected with 422.
// Requests without the header pass through untouched.
func Idempotency(store IdempotencyStore, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
			if key == "" {
				return next(c)
			}
			if len(key) > maxIdempotencyKeyLen {
				return echo.NewHTTPError(http.StatusBadRequest, "Idempotency-Key is too long")
			}

			identity, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			scoped := identity.UserID + ":" + key
			ctx := c.Request().Context()

			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return err
			}
			c.Request().Body = io.NopCloser(bytes.NewReader(body))
			fingerprint := requestFingerprint(body)

			stored, err := store.Begin(ctx, scoped)
			switch {
			case errors.Is(err, redisstore.ErrInProgress):
				metrics.IdempotencyTotal.WithLabelValues("conflict").Inc()
				return echo.NewHTTPError(http.StatusConflict, "duplicate request currently processing")
			case err != nil:
				return err
			case stored != nil && stored.RequestHash != fingerprint:
				metrics.IdempotencyTotal.WithLabelValues("mismatch").Inc()
				return echo.NewHTTPError(http.StatusUnprocessableEntity, "Idempotency-Key was already used with a different request body")
			case stored != nil:
				metrics.IdempotencyTotal.WithLabelValues("replay").Inc()
				c.Response().Header().Set(HeaderReplayed, "true")
				return c.Blob(stored.Status, stored.ContentType, stored.Body)
			}
			metrics.IdempotencyTotal.WithLabelValues("miss").Inc()

			res := c.Response()
			capture := &bodyCapture{ResponseWriter: res.Writer}
			res.Writer = capture

			if err := next(c); err != nil {
				release(ctx, store, scoped, log)
				return err
			}
			if res.Status >= http.StatusInternalServerError {
				release(ctx, store, scoped, log)
				return nil
			}

			if err := store.Complete(ctx, scoped, redisstore.StoredResponse{
				Status:      res.Status,
				ContentType: res.Header().Get(echo.HeaderContentType),
				Body:        capture.buf.Bytes(),
				RequestHash: fingerprint,
			}); err != nil {
				// The response already went out; a retry will simply run again.
				log.Error().Err(err).Str("user_id", identity.UserID).Msg("idempotent response not stored")
				release(ctx, store, scoped, log)
			}
			return nil
		}
	}
}

func requestFingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func release(ctx context.Context, store IdempotencyStore, key string, log zerolog.Logger) {
	if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
		log.Warn().Err(err).Msg("idempotency key not released")
	}
}

// bodyCapture tees the response body so it can be stored for replay.
type bodyCapture struct {
	http.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}
