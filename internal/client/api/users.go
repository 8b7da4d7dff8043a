package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avetisovm/amora/internal/client/models"
	"github.com/avetisovm/amora/internal/common"
)

// Me fetches the caller's identity record.
func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile fetches the caller's profile. A missing profile is the expected
// "onboarding incomplete" state and is reported as common.ErrNoProfile.
func (c *HTTPClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(ctx, http.MethodGet, "/users/me/profile", nil, nil, "", &profile); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNoProfile
		}
		return nil, err
	}
	return &profile, nil
}

func (c *HTTPClient) CreateProfile(ctx context.Context, params *models.ProfileParams) (*models.Profile, error) {
	return c.writeProfile(ctx, http.MethodPost, params)
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, params *models.ProfileParams) (*models.Profile, error) {
	return c.writeProfile(ctx, http.MethodPut, params)
}

func (c *HTTPClient) writeProfile(ctx context.Context, method string, params *models.ProfileParams) (*models.Profile, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := c.do(ctx, method, "/users/me/profile", nil, body, contentTypeJSON, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *HTTPClient) UpdateAccount(ctx context.Context, email string) (*models.User, error) {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := c.do(ctx, http.MethodPut, "/users/me/account", nil, body, contentTypeJSON, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) Deactivate(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/users/me/deactivate", nil, nil, "", nil)
}

// DiscoverFilter narrows the candidate feed. Coordinates are optional; when
// absent the backend falls back to the profile's stored location.
type DiscoverFilter struct {
	MinAge    int
	MaxAge    int
	Latitude  *float64
	Longitude *float64
}

func (c *HTTPClient) Discover(ctx context.Context, filter DiscoverFilter) ([]models.Profile, error) {
	query := url.Values{}
	query.Set("min_age", strconv.Itoa(filter.MinAge))
	query.Set("max_age", strconv.Itoa(filter.MaxAge))
	if filter.Latitude != nil && filter.Longitude != nil {
		query.Set("latitude", fmt.Sprintf("%g", *filter.Latitude))
		query.Set("longitude", fmt.Sprintf("%g", *filter.Longitude))
	}

	var profiles []models.Profile
	if err := c.do(ctx, http.MethodGet, "/users/discover", query, nil, "", &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
