// Package services contains application services for the Amora client: the
// session bootstrap flow, the Google OAuth exchange and the background
// location updater.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avetisovm/amora/internal/client/api"
	"github.com/avetisovm/amora/internal/client/models"
	"github.com/avetisovm/amora/internal/client/session"
	"github.com/avetisovm/amora/internal/common"
	"github.com/avetisovm/amora/internal/logging"
)

// Route tells the caller where to take the user after a successful bootstrap.
type Route string

const (
	// RouteDiscover is the main surface: the user has a complete profile.
	RouteDiscover Route = "discover"
	// RouteOnboarding means the user is authenticated but has no profile
	// yet. This is an expected state, not an error.
	RouteOnboarding Route = "onboarding"
)

// BootstrapService sequences the handshake from credentials to a routable,
// fully identified session: tokens → identity → profile.
type BootstrapService struct {
	client  api.Client
	session *session.Store
	log     logging.Logger
}

func NewBootstrapService(client api.Client, store *session.Store, log logging.Logger) *BootstrapService {
	return &BootstrapService{client: client, session: store, log: log.With("component", "bootstrap")}
}

// LoginWithPassword authenticates with email/password and establishes the
// session.
func (s *BootstrapService) LoginWithPassword(ctx context.Context, email, password string) (Route, error) {
	pair, err := s.client.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	return s.establish(ctx, pair)
}

// RegisterAccount creates the account and then logs in with the same
// credentials (the register endpoint does not mint tokens).
func (s *BootstrapService) RegisterAccount(ctx context.Context, email, password string) (Route, error) {
	if _, err := s.client.Register(ctx, email, password); err != nil {
		return "", err
	}
	return s.LoginWithPassword(ctx, email, password)
}

// LoginWithGoogle trades a third-party Google access token for app tokens
// and establishes the session.
func (s *BootstrapService) LoginWithGoogle(ctx context.Context, googleAccessToken string) (Route, error) {
	pair, err := s.client.GoogleCallback(ctx, googleAccessToken)
	if err != nil {
		return "", err
	}
	return s.establish(ctx, pair)
}

// establish runs the strictly sequential tail of the bootstrap: store tokens
// provisionally so the identity fetch can authenticate, fetch identity,
// commit the session, then attempt the profile fetch to pick the route.
func (s *BootstrapService) establish(ctx context.Context, pair *models.TokenPair) (Route, error) {
	if err := s.session.SetTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return "", err
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		// no identity, no session: a half-built session must not survive
		if logoutErr := s.session.Logout(ctx); logoutErr != nil {
			s.log.Error(ctx, "failed to clear session after identity fetch failure", "error", logoutErr)
		}
		return "", fmt.Errorf("fetch identity: %w", err)
	}

	if err := s.session.SetAuth(ctx, pair.AccessToken, pair.RefreshToken, user); err != nil {
		return "", err
	}

	profile, err := s.client.GetProfile(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrNoProfile) {
			s.log.Warn(ctx, "profile fetch failed, routing to onboarding", "error", err)
		}
		return RouteOnboarding, nil
	}

	if err := s.session.SetProfile(ctx, profile); err != nil {
		return "", err
	}
	return RouteDiscover, nil
}
