// Package models defines the typed payloads exchanged with the Amora API.
// The backend is loosely typed in places (notably the admin endpoints); this
// package pins every response to an explicit shape so decoding fails fast on
// mismatch instead of propagating untyped values.
package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	Role       UserRole  `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// TokenPair is the credential pair returned by login, registration-then-login,
// the Google handoff and the refresh endpoint.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}
