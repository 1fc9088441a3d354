package http

import (
	"context"
	"net/http"
)

type contextKey string

const (
	actorIDKey   contextKey = "actorID"
	actorRoleKey contextKey = "actorRole"
)

const RoleAdmin = "admin"

// ActorContext lifts the authenticated caller's identity out of the
// headers the edge proxy sets. The service trusts the proxy; it does
// no token validation of its own.
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if actorID := r.Header.Get("X-Actor-ID"); actorID != "" {
			ctx = context.WithValue(ctx, actorIDKey, actorID)
		}
		if role := r.Header.Get("X-Actor-Role"); role != "" {
			ctx = context.WithValue(ctx, actorRoleKey, role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorID(r *http.Request) string {
	id, _ := r.Context().Value(actorIDKey).(string)
	return id
}

func actorRole(r *http.Request) string {
	role, _ := r.Context().Value(actorRoleKey).(string)
	return role
}
