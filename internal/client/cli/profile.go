package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avetisovm/amora/internal/client/api"
	"github.com/avetisovm/amora/internal/client/models"
	"github.com/avetisovm/amora/internal/client/services"
	"github.com/avetisovm/amora/internal/common"
)

// Profile prints the stored profile, refreshing it from the server first.
func (a *App) Profile(ctx context.Context) error {
	profile, err := a.client.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoProfile) {
			printlnFn("You have no profile yet. Run 'onboard' to create one.")
			return nil
		}
		printlnFn("Could not load profile:", err.Error())
		return err
	}
	if err := a.session.SetProfile(ctx, profile); err != nil {
		return err
	}

	printlnFn("Name:         ", profile.FirstName, profile.LastName)
	printlnFn("Birth date:   ", profile.BirthDate)
	printlnFn("Gender:       ", profile.Gender)
	printlnFn("Interested in:", profile.InterestedIn)
	if profile.Bio != "" {
		printlnFn("Bio:          ", profile.Bio)
	}
	for _, ph := range profile.Photos {
		marker := ""
		if ph.IsPrimary {
			marker = " (primary)"
		}
		printlnFn("Photo:", a.client.ImageURL(ph.URL)+marker, " id:", ph.ID)
	}
	return nil
}

// Onboard interactively creates the profile and switches the session to the
// discover route.
func (a *App) Onboard(ctx context.Context) error {
	params := &models.ProfileParams{}

	var err error
	if params.FirstName, err = getSimpleText(a.reader, "First name", os.Stdout); err != nil {
		return err
	}
	if params.LastName, err = getSimpleText(a.reader, "Last name (optional)", os.Stdout); err != nil {
		return err
	}
	if params.BirthDate, err = getSimpleText(a.reader, "Birth date (YYYY-MM-DD)", os.Stdout); err != nil {
		return err
	}
	if params.Gender, err = getSimpleText(a.reader, "Gender", os.Stdout); err != nil {
		return err
	}
	if params.InterestedIn, err = getSimpleText(a.reader, "Interested in", os.Stdout); err != nil {
		return err
	}
	if params.Bio, err = getSimpleText(a.reader, "Bio (optional)", os.Stdout); err != nil {
		return err
	}
	params.Latitude = a.config.Latitude
	params.Longitude = a.config.Longitude

	profile, err := a.client.CreateProfile(ctx, params)
	if err != nil {
		var verr *api.ValidationError
		if errors.As(err, &verr) {
			printlnFn("Profile rejected:", verr.Detail)
			return err
		}
		printlnFn("Could not create profile:", err.Error())
		return err
	}

	if err := a.session.SetProfile(ctx, profile); err != nil {
		return err
	}
	a.route = services.RouteDiscover
	printlnFn("Profile created. Run 'photo <path>' to add a photo, then 'discover'.")
	return nil
}

// Photo uploads an image file. The first photo of a profile becomes primary.
func (a *App) Photo(ctx context.Context, path string) error {
	isPrimary := false
	if p := a.session.Profile(); p != nil && len(p.Photos) == 0 {
		isPrimary = true
	}

	photo, err := a.client.UploadPhoto(ctx, path, isPrimary)
	if err != nil {
		printlnFn("Upload failed:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Uploaded: %s (id %s)", a.client.ImageURL(photo.URL), photo.ID))
	return nil
}

// DeletePhoto removes a photo by the id shown in 'profile'.
func (a *App) DeletePhoto(ctx context.Context, photoID string) error {
	if err := a.client.DeletePhoto(ctx, photoID); err != nil {
		printlnFn("Delete failed:", err.Error())
		return err
	}
	printlnFn("Photo deleted.")
	return nil
}
