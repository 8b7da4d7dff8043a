// Package session holds the single authoritative record of the client's
// authentication state: access/refresh tokens, the authenticated user and the
// optional profile. Every mutation is written through to a local sqlite
// database so a restart preserves the session.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/avetisovm/amora/internal/client/models"
	sessionrepo "github.com/avetisovm/amora/internal/client/repositories/session"
	"github.com/avetisovm/amora/internal/dbx"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
	keyProfile      = "profile"
)

// Store is safe for concurrent use. Readers are synchronous and never touch
// the database; mutations persist first and update the in-memory copy only
// after the write succeeded.
type Store struct {
	db *sql.DB

	mu      sync.RWMutex
	access  string
	refresh string
	user    *models.User
	profile *models.Profile
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) repo(db dbx.DBTX) sessionrepo.Repository {
	return sessionrepo.NewSQLiteRepository(db)
}

// Load restores a previously persisted session, if any. Missing keys are not
// an error: the store simply starts unauthenticated.
func (s *Store) Load(ctx context.Context) error {
	all, err := s.repo(s.db).List(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	var user *models.User
	if raw, ok := all[keyUser]; ok {
		user = &models.User{}
		if err := json.Unmarshal(raw, user); err != nil {
			return fmt.Errorf("decode stored user: %w", err)
		}
	}
	var profile *models.Profile
	if raw, ok := all[keyProfile]; ok {
		profile = &models.Profile{}
		if err := json.Unmarshal(raw, profile); err != nil {
			return fmt.Errorf("decode stored profile: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = string(all[keyAccessToken])
	s.refresh = string(all[keyRefreshToken])
	s.user = user
	s.profile = profile
	return nil
}

// SetAuth stores the full authenticated session after login, registration or
// the OAuth handoff. The profile, if any, is left untouched.
func (s *Store) SetAuth(ctx context.Context, access, refresh string, user *models.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(access)); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyRefreshToken, []byte(refresh)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUser, rawUser)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	s.user = user
	return nil
}

// SetTokens updates only the token pair, leaving user and profile alone.
// Used after a silent refresh and as the provisional step of bootstrap.
func (s *Store) SetTokens(ctx context.Context, access, refresh string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(access)); err != nil {
			return err
		}
		return repo.Set(ctx, keyRefreshToken, []byte(refresh))
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

// SetProfile attaches the profile once fetched or created.
func (s *Store) SetProfile(ctx context.Context, profile *models.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.repo(s.db).Set(ctx, keyProfile, raw); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	return nil
}

// Logout clears tokens, user and profile atomically, both on disk and in
// memory.
func (s *Store) Logout(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Clear(ctx)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	s.user = nil
	s.profile = nil
	return nil
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Profile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Authenticated reports whether an access token is present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access != ""
}
