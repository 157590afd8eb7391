package service

import (
	"context"

	"github.com/ndewijer/wealth-manager-backend/internal/cache"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

type (
	bearerTokenKey struct{}
	sessionKey     struct{}
)

// WithBearerToken returns a copy of ctx carrying the caller's bearer token.
// Backends that forward credentials upstream read it with BearerToken.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey{}, token)
}

// BearerToken returns the token stored by WithBearerToken, or "".
func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(bearerTokenKey{}).(string)
	return token
}

// WithSession returns a copy of ctx carrying the authenticated manager.
func WithSession(ctx context.Context, session model.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by WithSession.
func SessionFromContext(ctx context.Context) (model.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(model.Session)
	return session, ok
}

// cacheScope is the manager the cached views of ctx belong to. Backend
// answers depend on the caller's credentials, so cached entries are never
// shared between managers.
func cacheScope(ctx context.Context) string {
	if session, ok := SessionFromContext(ctx); ok && session.ManagerID != "" {
		return session.ManagerID
	}
	return cache.AnonymousScope
}
