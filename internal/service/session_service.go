package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/cache"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// SessionService resolves bearer tokens into manager sessions.
type SessionService struct {
	backend Backend
	cache   *cache.Store
}

// NewSessionService creates a new SessionService.
func NewSessionService(backend Backend, store *cache.Store) *SessionService {
	return &SessionService{
		backend: backend,
		cache:   store,
	}
}

// Authenticate returns the session of a bearer token. Sessions are cached by
// a hash of the token, never by the token itself.
func (s *SessionService) Authenticate(ctx context.Context, token string) (model.Session, error) {
	if token == "" {
		return model.Session{}, apperrors.ErrUnauthenticated
	}

	sum := sha256.Sum256([]byte(token))
	key := cache.SessionKey(hex.EncodeToString(sum[:]))
	if v, ok := s.cache.Get(key); ok {
		if session, ok := v.(model.Session); ok {
			return session, nil
		}
	}

	session, err := s.backend.Authenticate(ctx, token)
	if err != nil {
		return model.Session{}, err
	}
	s.cache.Set(key, session)
	return session, nil
}
