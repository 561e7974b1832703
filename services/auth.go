package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"tonotes/apperr"
	"tonotes/model"
	"tonotes/usecase"
	"tonotes/utils"
)

// AuthService is the gateway's identity provider: users in the Store, sessions in Redis,
// stateless JWTs bound to a session id.
type AuthService struct {
	users    usecase.UserRepository
	sessions SessionStore
	tokens   *TokenManager
	oauth    *OAuthProviders
	now      func() time.Time
}

var _ usecase.IdentityProvider = (*AuthService)(nil)

func NewAuthService(users usecase.UserRepository, sessions SessionStore, tokens *TokenManager, oauth *OAuthProviders) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		oauth:    oauth,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignUp(ctx context.Context, email, password string, client model.ClientInfo) (*model.AuthResult, error) {
	email = normalizeEmail(email)
	if !utils.ValidateEmail(email) {
		utils.TrackAuthAttempt("failure", "signup")
		return nil, apperr.StoreMessage("Unable to validate email address: invalid format")
	}
	if !utils.ValidatePassword(password) {
		utils.TrackAuthAttempt("failure", "signup")
		return nil, apperr.StoreMessage("Password should be at least 6 characters.")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	user := &model.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		utils.TrackAuthAttempt("failure", "signup")
		return nil, err
	}

	result, err := s.startSession(ctx, user, client)
	if err != nil {
		return nil, err
	}
	utils.TrackAuthAttempt("success", "signup")
	return result, nil
}

func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string, client model.ClientInfo) (*model.AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		utils.TrackAuthAttempt("failure", "password")
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := VerifyPassword(user.PasswordHash, password)
	if err != nil || !ok {
		utils.TrackAuthAttempt("failure", "password")
		return nil, apperr.ErrInvalidCredentials
	}

	result, err := s.startSession(ctx, user, client)
	if err != nil {
		return nil, err
	}
	utils.TrackAuthAttempt("success", "password")
	return result, nil
}

func (s *AuthService) startSession(ctx context.Context, user *model.User, client model.ClientInfo) (*model.AuthResult, error) {
	now := s.now()
	session := &model.Session{
		SessionID:   utils.NewID(),
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: utils.GenerateSessionName(client.UserAgent),
		DeviceInfo:  utils.DescribeDevice(client.UserAgent),
		IPAddress:   client.IPAddress,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.tokens.RefreshTTL()),
	}

	tokens, err := s.tokens.IssueSession(user, session.SessionID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, apperr.Store(err)
	}

	return &model.AuthResult{User: user, Session: tokens}, nil
}

func (s *AuthService) SignOut(ctx context.Context, identity model.Identity) error {
	if err := s.sessions.DeleteSession(ctx, identity.UserID, identity.SessionID); err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (s *AuthService) SignOutEverywhere(ctx context.Context, userID string) error {
	if err := s.sessions.DeleteUserSessions(ctx, userID); err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (s *AuthService) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	return s.oauth.AuthURL(provider, redirectTo)
}

func (s *AuthService) GetUser(ctx context.Context, accessToken string) (*model.Identity, error) {
	if accessToken == "" {
		return nil, apperr.ErrUnauthorized
	}

	claims, err := s.tokens.Parse(accessToken, TokenTypeAccess)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		log.Printf("Session lookup failed for %s: %v", claims.SessionID, err)
		return nil, apperr.ErrUnauthorized
	}
	if session == nil || session.UserID != claims.Subject {
		return nil, apperr.ErrUnauthorized
	}

	if _, err := s.users.GetUserByID(ctx, claims.Subject); err != nil {
		if !errors.Is(err, apperr.ErrUserNotFound) {
			log.Printf("User lookup failed for %s: %v", claims.Subject, err)
		}
		return nil, apperr.ErrUnauthorized
	}

	return &model.Identity{
		UserID:      claims.Subject,
		Email:       claims.Email,
		SessionID:   claims.SessionID,
		AccessToken: accessToken,
	}, nil
}

func (s *AuthService) Ping(ctx context.Context) error {
	return s.sessions.Ping(ctx)
}
