package domain

import "time"

// ResetToken is a single-use password reset credential.
// A token is deleted immediately after a successful password update;
// expired rows linger until the next opportunistic sweep.
type ResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Valid reports whether the token can still be redeemed at now.
// Comparison is strict: a token whose ExpiresAt equals now is already invalid.
func (t ResetToken) Valid(now time.Time) bool {
	return t.ExpiresAt.After(now)
}

// SweepEligible reports whether the sweep may physically delete the row.
func (t ResetToken) SweepEligible(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
