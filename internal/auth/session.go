package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/careercompass/compass/internal/api"
	"github.com/careercompass/compass/internal/store"
)

// Session is the logged-in identity: bearer token plus cached user,
// backed by the credential store. It replaces page-wide ambient state
// with an explicit object handed to whoever needs it; the transport's
// unauthorized hook calls Clear so a 401 anywhere logs the whole
// process out.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *api.User
	repo  store.CredentialRepo
}

// Load restores a session from the credential store. A store without
// credentials yields a logged-out session, not an error.
func Load(ctx context.Context, repo store.CredentialRepo) (*Session, error) {
	s := &Session{repo: repo}

	token, userJSON, err := repo.Load(ctx)
	if errors.Is(err, store.ErrNoCredentials) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	var user api.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		// A corrupt identity blob means the login is unusable; start clean.
		_ = repo.Clear(ctx)
		return s, nil
	}

	s.token = token
	s.user = &user
	return s, nil
}

// Login stores the verified identity, replacing any previous login.
func (s *Session) Login(ctx context.Context, user api.User, token string) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.repo.Save(ctx, token, string(userJSON)); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Clear wipes the stored credentials and the in-memory identity. Used
// for both logout and the 401 path.
func (s *Session) Clear(ctx context.Context) error {
	err := s.repo.Clear(ctx)

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return err
}

// Token returns the current bearer token, or "" when logged out.
// Shaped to plug straight into api.WithTokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached identity, or nil when logged out.
func (s *Session) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether a token is present. Token validity is only
// discovered reactively, on the next 401.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// SignedOutMsg asks the UI to drop back to the login screen. Screens
// emit it on logout and whenever a call comes back unauthorized; the
// notice is shown once above the login form.
type SignedOutMsg struct {
	Notice string
}

