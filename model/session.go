package model

import "time"

type Session struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	DeviceInfo  string    `json:"device_info"`
	IPAddress   string    `json:"ip_address"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// TokenSession is the token bundle handed to the client after signup or login.
type TokenSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
}

// AuthResult mirrors the {user, session} payload clients store after authenticating.
type AuthResult struct {
	User    *User         `json:"user"`
	Session *TokenSession `json:"session"`
}

// ClientInfo describes where a sign-in came from.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}
