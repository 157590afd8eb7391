package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ndewijer/wealth-manager-backend/internal/api/response"
	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/logger"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
)

// Authenticator resolves a bearer token into a manager session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Session, error)
}

// SessionFromContext returns the session stored by Session.
func SessionFromContext(ctx context.Context) (model.Session, bool) {
	return service.SessionFromContext(ctx)
}

// Session authenticates the "Authorization: Bearer <token>" header. Requests
// without a valid token get 401. The session and the token are stored in the
// request context; backends forward the token upstream and services scope
// their cached views by the session's manager.
func Session(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthenticated.Error(), "missing bearer token")
				return
			}

			session, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, apperrors.ErrUnauthenticated) {
					response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthenticated.Error(), "invalid bearer token")
					return
				}
				logger.Get().Errorw("session lookup failed", "error", err)
				response.RespondError(w, http.StatusBadGateway, "failed to authenticate", err.Error())
				return
			}

			ctx := service.WithBearerToken(r.Context(), token)
			ctx = service.WithSession(ctx, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireFeature answers 403 when feature is disabled for the session's
// manager. It must run after Session.
func RequireFeature(feature string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthenticated.Error(), "")
				return
			}
			if !session.FeatureEnabled(feature) {
				response.RespondError(w, http.StatusForbidden, apperrors.ErrFeatureDisabled.Error(), feature)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
