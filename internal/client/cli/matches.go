package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/avetisovm/amora/internal/client/models"
)

// Matches lists the user's matches as a numbered list; 'chat <n>' resolves
// against it. Conversations with unseen messages are flagged.
func (a *App) Matches(ctx context.Context) error {
	matches, err := a.client.Matches(ctx)
	if err != nil {
		printlnFn("Could not load matches:", err.Error())
		return err
	}

	a.matches = matches
	if len(matches) == 0 {
		printlnFn("No matches yet. Keep liking!")
		return nil
	}

	for i, m := range matches {
		line := fmt.Sprintf("%d. %s", i+1, peerName(m))
		if a.cache.Unread(m.ID) {
			line += " [new messages]"
		}
		printlnFn(line)
	}
	return nil
}

// matchEntry resolves a 1-based index argument against the last match listing.
func (a *App) matchEntry(arg string) (*models.Match, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(a.matches) {
		return nil, fmt.Errorf("no match %q: run 'matches' first and pick a listed number", arg)
	}
	return &a.matches[n-1], nil
}

func peerName(m models.Match) string {
	if m.PeerProfile != nil && m.PeerProfile.FirstName != "" {
		return m.PeerProfile.FirstName
	}
	return m.ID
}
