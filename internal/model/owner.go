package model

import "github.com/google/uuid"

// Owner identifies whose history, result and preferences a request touches.
// Signed-in users are keyed by user ID; everyone else by a per-device ID.
type Owner struct {
	UserID   uuid.UUID
	DeviceID string
}

// Authenticated reports whether the owner is a signed-in user
func (o Owner) Authenticated() bool {
	return o.UserID != uuid.Nil
}

// Key returns a stable string key for in-memory maps and the local store
func (o Owner) Key() string {
	if o.Authenticated() {
		return "user:" + o.UserID.String()
	}
	return "device:" + o.DeviceID
}
