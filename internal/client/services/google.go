package services

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// googleEndpoint is Google's OAuth2 endpoint. Declared here rather than
// pulled from the oauth2/google subpackage to keep the dependency surface to
// the core library.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// GoogleExchanger drives the third-party half of the Google handoff: the
// user authorizes in a browser, pastes the code back, and the exchanger
// trades it for a Google access token. The app-token half is the backend's
// /auth/google/callback.
type GoogleExchanger struct {
	cfg *oauth2.Config
}

func NewGoogleExchanger(clientID, clientSecret, redirectURL string) *GoogleExchanger {
	return &GoogleExchanger{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     googleEndpoint,
		},
	}
}

// Configured reports whether a Google client id is present.
func (g *GoogleExchanger) Configured() bool {
	return g.cfg.ClientID != ""
}

// AuthURL returns the consent URL the user should open in a browser.
func (g *GoogleExchanger) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a Google access token.
func (g *GoogleExchanger) Exchange(ctx context.Context, code string) (string, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("google code exchange: %w", err)
	}
	return token.AccessToken, nil
}
