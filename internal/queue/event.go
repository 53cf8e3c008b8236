// Package queue defines message payloads exchanged over the message broker
// and a best-effort publisher for them.
package queue

// Event kinds published to the auth events queue.
const (
	EventUserActivated = "user.activated"
	EventUserLoggedIn  = "user.logged_in"
	EventPasswordReset = "password.reset"
)

// AuthEvent is published after a successful auth state transition. It
// carries enough for downstream consumers to audit or notify without
// querying the primary database. Failures to publish never fail the request.
type AuthEvent struct {
	Kind       string `json:"kind"`
	UserID     uint64 `json:"user_id"`
	Email      string `json:"email"`
	OccurredAt string `json:"occurred_at"`
}
