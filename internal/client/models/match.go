package models

import "time"

// Match is a mutual-like pairing between two users that unlocks messaging.
type Match struct {
	ID        string    `json:"id"`
	User1ID   string    `json:"user1_id"`
	User2ID   string    `json:"user2_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	// PeerProfile is hydrated by the backend's match listing.
	PeerProfile *Profile `json:"peer_profile,omitempty"`
}

// LikeResult is the response to a like/superlike. MatchID is set only when
// the like completed a mutual pair.
type LikeResult struct {
	Status  string  `json:"status"`
	Match   bool    `json:"match"`
	MatchID *string `json:"match_id"`
}
