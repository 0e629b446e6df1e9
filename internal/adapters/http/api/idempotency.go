package api

import (
	"net/http"

	"github.com/okian/handicap/internal/domain/dedupe"
)

// IdempotencyKeyHeader lets a client retry an append without applying it
// twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotent answers 409 when a request repeats a key already applied to
// the same path. Keys of requests that failed are released for retry.
// Requests without the header, or a nil deduper, pass through.
func Idempotent(d dedupe.Deduper) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if d == nil || key == "" {
				next.ServeHTTP(w, r)
				return
			}
			scoped := r.Method + " " + r.URL.Path + " " + key
			if d.SeenAndRecord(r.Context(), scoped) {
				writeError(w, http.StatusConflict, "duplicate_request", ErrDuplicateRequest)
				return
			}
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			if wrapped.statusCode >= statusBadRequest {
				d.Unrecord(r.Context(), scoped)
			}
		})
	}
}
