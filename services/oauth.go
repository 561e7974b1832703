package services

import (
	"tonotes/apperr"
	"tonotes/utils"

	"golang.org/x/oauth2"
)

const ProviderGoogle = "google"

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// OAuthProviders builds authorization URLs for the configured providers.
type OAuthProviders struct {
	googleClientID     string
	googleClientSecret string
	newState           func() string
}

func NewOAuthProviders(googleClientID, googleClientSecret string) *OAuthProviders {
	return &OAuthProviders{
		googleClientID:     googleClientID,
		googleClientSecret: googleClientSecret,
		newState:           utils.NewID,
	}
}

func (p *OAuthProviders) AuthURL(provider, redirectTo string) (string, error) {
	if provider != ProviderGoogle || p == nil || p.googleClientID == "" {
		return "", apperr.StoreMessage("Unsupported provider: provider is not enabled")
	}

	cfg := &oauth2.Config{
		ClientID:     p.googleClientID,
		ClientSecret: p.googleClientSecret,
		RedirectURL:  redirectTo,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     googleEndpoint,
	}
	return cfg.AuthCodeURL(p.newState(), oauth2.AccessTypeOnline), nil
}
