package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/avetisovm/amora/internal/client/models"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Login authenticates with email and password. The backend follows the OAuth
// password-grant convention: form-encoded, with the email in the username
// field.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var pair models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, []byte(form.Encode()), contentTypeForm, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Register creates a new account. It does not log in: bootstrap follows up
// with a regular login to obtain tokens.
func (c *HTTPClient) Register(ctx context.Context, email, password string) (*models.User, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, contentTypeJSON, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GoogleCallback exchanges a third-party Google access token for app tokens.
func (c *HTTPClient) GoogleCallback(ctx context.Context, thirdPartyAccessToken string) (*models.TokenPair, error) {
	body, err := json.Marshal(map[string]string{"access_token": thirdPartyAccessToken})
	if err != nil {
		return nil, err
	}

	var pair models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/google/callback", nil, body, contentTypeJSON, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}
