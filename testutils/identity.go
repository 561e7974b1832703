package testutils

import (
	"context"
	"sync"
	"time"

	"tonotes/apperr"
	"tonotes/model"
	"tonotes/usecase"
)

// SteppingClock returns a clock that advances by step on every call, starting at start.
func SteppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(step)
		return now
	}
}

// StubIdentity is a usecase.IdentityProvider backed by a token table.
type StubIdentity struct {
	mu        sync.Mutex
	tokens    map[string]model.Identity
	SignedOut []string
	Revoked   []string
	OAuthURL  string
	PingErr   error
}

var _ usecase.IdentityProvider = (*StubIdentity)(nil)

func NewStubIdentity() *StubIdentity {
	return &StubIdentity{tokens: map[string]model.Identity{}}
}

// AddToken makes token resolve to userID.
func (s *StubIdentity) AddToken(token, userID string) model.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := model.Identity{
		UserID:      userID,
		Email:       userID + "@example.com",
		SessionID:   "session-" + token,
		AccessToken: token,
	}
	s.tokens[token] = id
	return id
}

func (s *StubIdentity) SignUp(ctx context.Context, email, password string, client model.ClientInfo) (*model.AuthResult, error) {
	if email == "taken@example.com" {
		return nil, apperr.ErrUserExists
	}
	return s.result(email), nil
}

func (s *StubIdentity) SignInWithPassword(ctx context.Context, email, password string, client model.ClientInfo) (*model.AuthResult, error) {
	if password != "correct-password" {
		return nil, apperr.ErrInvalidCredentials
	}
	return s.result(email), nil
}

func (s *StubIdentity) result(email string) *model.AuthResult {
	return &model.AuthResult{
		User: &model.User{ID: "user-" + email, Email: email},
		Session: &model.TokenSession{
			AccessToken:  "access-" + email,
			RefreshToken: "refresh-" + email,
			TokenType:    "bearer",
			ExpiresIn:    3600,
		},
	}
}

func (s *StubIdentity) SignOut(ctx context.Context, identity model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, identity.AccessToken)
	s.SignedOut = append(s.SignedOut, identity.SessionID)
	return nil
}

func (s *StubIdentity) SignOutEverywhere(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, id := range s.tokens {
		if id.UserID == userID {
			delete(s.tokens, token)
		}
	}
	s.Revoked = append(s.Revoked, userID)
	return nil
}

func (s *StubIdentity) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	if provider != "google" || s.OAuthURL == "" {
		return "", apperr.StoreMessage("Unsupported provider: provider is not enabled")
	}
	return s.OAuthURL + "?redirect_uri=" + redirectTo, nil
}

func (s *StubIdentity) GetUser(ctx context.Context, accessToken string) (*model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[accessToken]
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	return &id, nil
}

func (s *StubIdentity) Ping(ctx context.Context) error {
	return s.PingErr
}
