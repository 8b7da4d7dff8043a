package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avetisovm/amora/internal/client/api"
	"github.com/avetisovm/amora/internal/client/models"
	"github.com/avetisovm/amora/internal/client/session"
	"github.com/avetisovm/amora/internal/common"
	"github.com/avetisovm/amora/internal/logging"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE session (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return session.NewStore(db)
}

// ---- fake client ----

// fakeClient implements api.Client for unit tests of the bootstrap flow.
type fakeClient struct {
	LoginRet *models.TokenPair
	LoginErr error

	RegisterRet *models.User
	RegisterErr error

	GoogleRet *models.TokenPair
	GoogleErr error

	MeRet *models.User
	MeErr error

	GetProfileRet *models.Profile
	GetProfileErr error

	LastLoginEmail    string
	LastLoginPassword string
	LastGoogleToken   string
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	f.LastLoginEmail = email
	f.LastLoginPassword = password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, email, password string) (*models.User, error) {
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) GoogleCallback(ctx context.Context, token string) (*models.TokenPair, error) {
	f.LastGoogleToken = token
	return f.GoogleRet, f.GoogleErr
}

func (f *fakeClient) Me(ctx context.Context) (*models.User, error) {
	return f.MeRet, f.MeErr
}

func (f *fakeClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	return f.GetProfileRet, f.GetProfileErr
}

// Unused by these tests but required by the interface.

func (f *fakeClient) CreateProfile(ctx context.Context, p *models.ProfileParams) (*models.Profile, error) {
	return nil, nil
}
func (f *fakeClient) UpdateProfile(ctx context.Context, p *models.ProfileParams) (*models.Profile, error) {
	return nil, nil
}
func (f *fakeClient) UpdateAccount(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}
func (f *fakeClient) Deactivate(ctx context.Context) error { return nil }
func (f *fakeClient) Discover(ctx context.Context, filter api.DiscoverFilter) ([]models.Profile, error) {
	return nil, nil
}
func (f *fakeClient) UploadPhoto(ctx context.Context, path string, isPrimary bool) (*models.Photo, error) {
	return nil, nil
}
func (f *fakeClient) DeletePhoto(ctx context.Context, photoID string) error { return nil }
func (f *fakeClient) Like(ctx context.Context, toUserID string, superlike bool) (*models.LikeResult, error) {
	return nil, nil
}
func (f *fakeClient) Matches(ctx context.Context) ([]models.Match, error) { return nil, nil }
func (f *fakeClient) Messages(ctx context.Context, matchID string, limit, offset int) ([]models.Message, error) {
	return nil, nil
}
func (f *fakeClient) Reports(ctx context.Context, page, size int) (*models.ReportsPage, error) {
	return nil, nil
}
func (f *fakeClient) TakeAction(ctx context.Context, targetUserID, actionType, reason string) error {
	return nil
}
func (f *fakeClient) ReportUser(ctx context.Context, reportedID, reason, details string) (*models.Report, error) {
	return nil, nil
}
func (f *fakeClient) BlockUser(ctx context.Context, blockedID string) error { return nil }
func (f *fakeClient) Users(ctx context.Context, page, size int, search string) (*models.UsersPage, error) {
	return nil, nil
}
func (f *fakeClient) UserDetails(ctx context.Context, userID string) (*models.UserDetails, error) {
	return nil, nil
}
func (f *fakeClient) UserActivity(ctx context.Context, userID string, page, size int) (*models.ActivityPage, error) {
	return nil, nil
}

func (f *fakeClient) ImageURL(raw string) string { return raw }

var _ api.Client = (*fakeClient)(nil)

// ---- tests ----

func TestLoginWithPassword_FullProfile(t *testing.T) {
	store := newTestStore(t)
	fc := &fakeClient{
		LoginRet:      &models.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		MeRet:         &models.User{ID: "u-1", Email: "ada@example.com", Role: models.RoleUser},
		GetProfileRet: &models.Profile{ID: "p-1", UserID: "u-1", FirstName: "Ada"},
	}
	svc := NewBootstrapService(fc, store, logging.NewDefault())

	route, err := svc.LoginWithPassword(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, RouteDiscover, route)
	require.True(t, store.Authenticated())
	require.Equal(t, "u-1", store.User().ID)
	require.Equal(t, "Ada", store.Profile().FirstName)
	require.Equal(t, "ada@example.com", fc.LastLoginEmail)
}

// Scenario A: missing profile routes to onboarding while the session stays
// authenticated.
func TestLoginWithPassword_NoProfileRoutesToOnboarding(t *testing.T) {
	store := newTestStore(t)
	fc := &fakeClient{
		LoginRet:      &models.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		MeRet:         &models.User{ID: "u-1", Email: "ada@example.com"},
		GetProfileErr: common.ErrNoProfile,
	}
	svc := NewBootstrapService(fc, store, logging.NewDefault())

	route, err := svc.LoginWithPassword(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, RouteOnboarding, route)
	require.True(t, store.Authenticated())
	require.Nil(t, store.Profile())
}

func TestLoginWithPassword_BadCredentials(t *testing.T) {
	store := newTestStore(t)
	fc := &fakeClient{LoginErr: common.ErrUnauthorized}
	svc := NewBootstrapService(fc, store, logging.NewDefault())

	_, err := svc.LoginWithPassword(context.Background(), "ada@example.com", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.False(t, store.Authenticated())
}

// No identity, no session: a failed identity fetch aborts the flow and
// clears the provisional tokens.
func TestLoginWithPassword_IdentityFailureAborts(t *testing.T) {
	store := newTestStore(t)
	boom := errors.New("identity exploded")
	fc := &fakeClient{
		LoginRet: &models.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		MeErr:    boom,
	}
	svc := NewBootstrapService(fc, store, logging.NewDefault())

	_, err := svc.LoginWithPassword(context.Background(), "ada@example.com", "pw")
	require.ErrorIs(t, err, boom)
	require.False(t, store.Authenticated())
	require.Nil(t, store.User())
}

func TestRegisterAccount_RegistersThenLogsIn(t *testing.T) {
	store := newTestStore(t)
	fc := &fakeClient{
		RegisterRet:   &models.User{ID: "u-2", Email: "new@example.com"},
		LoginRet:      &models.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		MeRet:         &models.User{ID: "u-2", Email: "new@example.com"},
		GetProfileErr: common.ErrNoProfile,
	}
	svc := NewBootstrapService(fc, store, logging.NewDefault())

	route, err := svc.RegisterAccount(context.Background(), "new@example.com", "pw")
	require.NoError(t, err)
	// a fresh registration never has a profile
	require.Equal(t, RouteOnboarding, route)
	require.Equal(t, "new@example.com", fc.LastLoginEmail)
}

func TestLoginWithGoogle(t *testing.T) {
	store := newTestStore(t)
	fc := &fakeClient{
		GoogleRet:     &models.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		MeRet:         &models.User{ID: "u-3", Email: "g@example.com"},
		GetProfileRet: &models.Profile{ID: "p-3", UserID: "u-3", FirstName: "Grace"},
	}
	svc := NewBootstrapService(fc, store, logging.NewDefault())

	route, err := svc.LoginWithGoogle(context.Background(), "google-token")
	require.NoError(t, err)
	require.Equal(t, RouteDiscover, route)
	require.Equal(t, "google-token", fc.LastGoogleToken)
}
