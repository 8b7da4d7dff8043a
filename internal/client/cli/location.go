package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/avetisovm/amora/internal/client/models"
)

// Locate sets the profile coordinates by hand. A terminal has no geolocation
// device, so this and the config file are the only sources of a fix; the
// entered coordinates also become the session's discovery filter.
func (a *App) Locate(ctx context.Context) error {
	latText, err := getSimpleText(a.reader, "Latitude", os.Stdout)
	if err != nil {
		return err
	}
	lonText, err := getSimpleText(a.reader, "Longitude", os.Stdout)
	if err != nil {
		return err
	}

	lat, err := strconv.ParseFloat(latText, 64)
	if err != nil {
		printlnFn("Not a valid latitude:", latText)
		return err
	}
	lon, err := strconv.ParseFloat(lonText, 64)
	if err != nil {
		printlnFn("Not a valid longitude:", lonText)
		return err
	}

	profile, err := a.client.UpdateProfile(ctx, &models.ProfileParams{Latitude: &lat, Longitude: &lon})
	if err != nil {
		printlnFn("Location update failed:", err.Error())
		return err
	}

	if err := a.session.SetProfile(ctx, profile); err != nil {
		return err
	}
	a.config.Latitude = &lat
	a.config.Longitude = &lon
	printlnFn("Location updated.")
	return nil
}
