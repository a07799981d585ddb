// Package session owns the client's authentication state: the bearer token,
// its persistence, and the login/register/logout transitions.
package session

import (
	"context"
	"sync"

	"taskdeck/internal/api"
	"taskdeck/internal/debuglog"
	"taskdeck/internal/store"
)

// Session is the single owner of the token. It is passed explicitly to the
// route guard and data controllers; there is no ambient global. It also
// serves as the client's api.TokenSource.
//
// Two states: unauthenticated (token == "") and authenticated (token != "").
// A 401 from a later API call is not special-cased here; it propagates to
// the caller like any other API error.
type Session struct {
	mu    sync.RWMutex
	st    store.Store
	token string
}

func New(st store.Store) *Session {
	return &Session{st: st}
}

// Hydrate loads a persisted token, if any. It performs no network call: a
// stored token is trusted until the server says otherwise.
func (s *Session) Hydrate() error {
	tok, err := s.st.LoadToken()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
	if tok != "" {
		debuglog.Logger().Debug("session: hydrated from stored token")
	}
	return nil
}

// Token implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool { return s.Token() != "" }

// Login exchanges credentials for a token, persists it, and transitions to
// authenticated. On failure the session stays unauthenticated and the error
// is returned so the calling form can stop its own busy indicator.
func (s *Session) Login(ctx context.Context, svc api.Service, identifier, password string) error {
	tok, err := svc.Login(ctx, identifier, password)
	if err != nil {
		debuglog.Logger().WithError(err).Debug("session: login failed")
		return err
	}
	if err := s.st.SaveToken(tok); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
	debuglog.Logger().Info("session: authenticated")
	return nil
}

// Register creates an account. It never authenticates: on success the user
// is expected to log in.
func (s *Session) Register(ctx context.Context, svc api.Service, fields api.RegisterFields) error {
	if err := svc.Register(ctx, fields); err != nil {
		debuglog.Logger().WithError(err).Debug("session: register failed")
		return err
	}
	return nil
}

// Logout clears the persisted token and cached pages and transitions to
// unauthenticated, regardless of prior state.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	if err := s.st.RemoveToken(); err != nil {
		return err
	}
	// Best-effort: a stale cache must not leak into the next session.
	_ = s.st.ClearCache(ctx)
	debuglog.Logger().Info("session: logged out")
	return nil
}
