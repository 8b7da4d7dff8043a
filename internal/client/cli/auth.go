package cli

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"

	"github.com/avetisovm/amora/internal/client/api"
	"github.com/avetisovm/amora/internal/client/services"
	"github.com/avetisovm/amora/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password, creates the account and logs
// straight in with the same credentials.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	route, err := a.bootstrap.RegisterAccount(ctx, email, password)
	if err != nil {
		var verr *api.ValidationError
		if errors.As(err, &verr) {
			printlnFn("Registration rejected:", verr.Detail)
			return err
		}
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Welcome to Amora!")
	a.enterRoute(route)
	return nil
}

// Login prompts for credentials and runs the password bootstrap.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	route, err := a.bootstrap.LoginWithPassword(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			printlnFn("Invalid email or password.")
		case errors.Is(err, common.ErrAccountInactive):
			printlnFn("This account has been deactivated.")
		default:
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	a.enterRoute(route)
	return nil
}

// Google runs the two-legged Google login: the user authorizes in a browser,
// pastes the code back, and the resulting Google token is traded for app
// tokens by the backend.
func (a *App) Google(ctx context.Context) error {
	if !a.google.Configured() {
		printlnFn("Google login is not configured (set google_client_id in the config file).")
		return nil
	}

	state := uuid.NewString()
	printlnFn("Open this URL in a browser and authorize:")
	printlnFn(a.google.AuthURL(state))

	code, err := getSimpleText(a.reader, "Paste the authorization code", os.Stdout)
	if err != nil {
		return err
	}

	googleToken, err := a.google.Exchange(ctx, code)
	if err != nil {
		printlnFn("Google authorization failed:", err.Error())
		return err
	}

	route, err := a.bootstrap.LoginWithGoogle(ctx, googleToken)
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.enterRoute(route)
	return nil
}

// Logout clears the persisted session and the in-memory chat cache.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	a.cache.Clear()
	a.route = ""
	a.feed = nil
	a.matches = nil
	printlnFn("Logged out.")
	return nil
}

func (a *App) enterRoute(route services.Route) {
	a.route = route
	if route == services.RouteOnboarding {
		printlnFn("You have no profile yet. Run 'onboard' to create one.")
	} else {
		printlnFn("Logged in. Run 'discover' to browse.")
	}
}
