// Package cli implements the interactive terminal front end of the Amora
// client: a REPL over the bootstrap, discovery, matching and chat services.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/avetisovm/amora/internal/client/api"
	"github.com/avetisovm/amora/internal/client/chat"
	"github.com/avetisovm/amora/internal/client/config"
	"github.com/avetisovm/amora/internal/client/models"
	"github.com/avetisovm/amora/internal/client/services"
	"github.com/avetisovm/amora/internal/client/session"
	"github.com/avetisovm/amora/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	session *session.Store
	client  api.Client
	cache   *chat.Cache

	bootstrap *services.BootstrapService
	google    *services.GoogleExchanger

	reader *bufio.Reader
	route  services.Route

	// last listings shown to the user; index arguments ("like 2",
	// "chat 1") resolve against these.
	feed    []models.Profile
	matches []models.Match
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := session.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init local database: %w", err)
	}

	store := session.NewStore(db)
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	cache := chat.NewCache()

	a := &App{
		config:  cfg,
		log:     log,
		db:      db,
		session: store,
		cache:   cache,
		reader:  bufio.NewReader(os.Stdin),
	}

	a.client = api.NewHTTPClient(cfg.APIEndpointURL, store, log,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithSessionExpiredHook(func() {
			cache.Clear()
			a.route = ""
			printlnFn("Session expired, please log in again.")
		}),
	)

	a.bootstrap = services.NewBootstrapService(a.client, store, log)
	a.google = services.NewGoogleExchanger(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	updater := services.NewLocationUpdater(a.client, a.session, a.log,
		a.config.LocationUpdateInterval, a.config.Latitude, a.config.Longitude)
	go updater.Run(ctx)

	printlnFn("Welcome to Amora CLI (type 'help' for commands)")
	if a.isLoggedIn() {
		printlnFn("Restored session for", a.session.User().Email)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated() && a.session.User() != nil
}

func (a *App) isAdmin() bool {
	u := a.session.User()
	return u != nil && u.Role == models.RoleAdmin
}

func (a *App) getStatus() string {
	u := a.session.User()
	if u == nil {
		return ""
	}
	s := u.Email
	if a.route != "" {
		s = s + " " + string(a.route)
	}
	return fmt.Sprintf("(%s)", s)
}
