// Package authmw provides HTTP middleware for bearer token authentication
// and actor identity extraction for audit records.
package authmw

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

// Actor identifies who triggered a request. Real identity verification
// happens upstream in the auth service; this service trusts the
// gateway-provided actor headers only for audit labelling.
type Actor struct {
	Subject string
	Role    string
}

const (
	defaultSubject = "api"
	defaultRole    = "service"

	subjectHeader = "X-Actor-Subject"
	roleHeader    = "X-Actor-Role"
)

type actorKey struct{}

// BearerToken returns middleware that validates the Authorization header
// contains a Bearer token matching the expected value. Comparison uses
// constant-time equality to prevent timing side-channel attacks.
func BearerToken(token string) func(http.Handler) http.Handler {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"error":"missing or malformed authorization header"}`, http.StatusUnauthorized)
				return
			}

			got := []byte(auth[len("Bearer "):])

			if subtle.ConstantTimeCompare(got, expected) != 1 {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithActor extracts the actor identity headers into the request context so
// handlers can attribute audit records.
func WithActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := Actor{
			Subject: r.Header.Get(subjectHeader),
			Role:    r.Header.Get(roleHeader),
		}
		if actor.Subject == "" {
			actor.Subject = defaultSubject
		}
		if actor.Role == "" {
			actor.Role = defaultRole
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

// ActorFromContext returns the actor stored by WithActor, or the defaults
// when the middleware did not run.
func ActorFromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Actor{Subject: defaultSubject, Role: defaultRole}
}
