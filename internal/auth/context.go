// SPDX-License-Identifier: Apache-2.0

// Package auth carries request-scoped caller identity: the client key
// used for rate limiting and the admin actor recorded on approvals.
package auth

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type clientKeyContextKey struct{}
type adminActorContextKey struct{}

var ctxClientKey clientKeyContextKey
var ctxAdminActorKey adminActorContextKey

// WithClientKey stores the rate-limit identity of the caller.
func WithClientKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxClientKey, key)
}

func ClientKeyFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxClientKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// WithAdminActor marks the request as authenticated via the admin token.
func WithAdminActor(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxAdminActorKey, true)
}

func IsAdminActor(ctx context.Context) bool {
	v, ok := ctx.Value(ctxAdminActorKey).(bool)
	return ok && v
}

// ClientKeyFromRequest derives a stable per-client key: the first
// X-Forwarded-For hop when present, otherwise the remote host.
func ClientKeyFromRequest(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
