package services

import (
	"context"
	"time"

	"github.com/avetisovm/amora/internal/client/api"
	"github.com/avetisovm/amora/internal/client/models"
	"github.com/avetisovm/amora/internal/client/session"
	"github.com/avetisovm/amora/internal/logging"
)

// LocationUpdater periodically pushes the configured coordinates onto the
// user's profile so discovery stays geo-accurate. Failures are transient
// background noise: logged, never surfaced, never blocking.
type LocationUpdater struct {
	client   api.Client
	session  *session.Store
	log      logging.Logger
	interval time.Duration

	latitude  *float64
	longitude *float64
}

func NewLocationUpdater(client api.Client, store *session.Store, log logging.Logger, interval time.Duration, lat, lon *float64) *LocationUpdater {
	return &LocationUpdater{
		client:    client,
		session:   store,
		log:       log.With("component", "location"),
		interval:  interval,
		latitude:  lat,
		longitude: lon,
	}
}

// Run blocks until ctx is done, updating the profile location every
// interval. Intended to run in its own goroutine.
func (u *LocationUpdater) Run(ctx context.Context) {
	if u.latitude == nil || u.longitude == nil {
		// no fix configured; nothing to report
		return
	}

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			u.update(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (u *LocationUpdater) update(ctx context.Context) {
	if !u.session.Authenticated() || u.session.Profile() == nil {
		return
	}

	_, err := u.client.UpdateProfile(ctx, &models.ProfileParams{
		Latitude:  u.latitude,
		Longitude: u.longitude,
	})
	if err != nil {
		u.log.Warn(ctx, "background location update failed", "error", err)
	}
}
