package handler

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey string

const senderIDKey contextKey = "sender_id"

// SenderIdentity lifts the authenticated user id into the request
// context. Real authentication sits in front of this service; until then
// the id arrives as an X-User-ID header set by the gateway.
func SenderIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get("X-User-ID"); raw != "" {
			if id, err := strconv.Atoi(raw); err == nil && id > 0 {
				r = r.WithContext(context.WithValue(r.Context(), senderIDKey, id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SenderFromContext returns the authenticated sender id, if any.
func SenderFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(senderIDKey).(int)
	return id, ok
}
