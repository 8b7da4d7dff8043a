package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/avetisovm/amora/internal/client/api"
	"github.com/avetisovm/amora/internal/client/models"
)

// Discover fetches the candidate feed and prints it as a numbered list. The
// numbers are what 'like', 'superlike', 'report' and 'block' resolve against.
func (a *App) Discover(ctx context.Context) error {
	feed, err := a.client.Discover(ctx, api.DiscoverFilter{
		MinAge:    a.config.MinAge,
		MaxAge:    a.config.MaxAge,
		Latitude:  a.config.Latitude,
		Longitude: a.config.Longitude,
	})
	if err != nil {
		printlnFn("Discover failed:", err.Error())
		return err
	}

	a.feed = feed
	if len(feed) == 0 {
		printlnFn("Nobody new around right now. Try again later.")
		return nil
	}

	for i, p := range feed {
		printlnFn(fmt.Sprintf("%d. %s", i+1, describeProfile(p)))
		if url := primaryPhotoURL(p); url != "" {
			printlnFn("   photo: " + a.client.ImageURL(url))
		}
	}
	return nil
}

// Like sends a like (or superlike) to the n-th candidate from the last feed.
func (a *App) Like(ctx context.Context, arg string, superlike bool) error {
	p, err := a.feedEntry(arg)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	result, err := a.client.Like(ctx, p.UserID, superlike)
	if err != nil {
		printlnFn("Like failed:", err.Error())
		return err
	}

	if result.Match {
		printlnFn(fmt.Sprintf("It's a match with %s! Run 'matches' to start chatting.", p.FirstName))
	} else {
		printlnFn("Liked", p.FirstName+".")
	}
	return nil
}

// feedEntry resolves a 1-based index argument against the last feed.
func (a *App) feedEntry(arg string) (*models.Profile, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(a.feed) {
		return nil, fmt.Errorf("no candidate %q: run 'discover' first and pick a listed number", arg)
	}
	return &a.feed[n-1], nil
}

func describeProfile(p models.Profile) string {
	s := p.FirstName
	if p.LastName != "" {
		s += " " + p.LastName
	}
	if p.Bio != "" {
		s += " - " + p.Bio
	}
	return s
}

func primaryPhotoURL(p models.Profile) string {
	for _, ph := range p.Photos {
		if ph.IsPrimary {
			return ph.URL
		}
	}
	if len(p.Photos) > 0 {
		return p.Photos[0].URL
	}
	return ""
}
