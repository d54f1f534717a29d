package model

import "time"

// Profile is the public identity of an asset owner. Profiles are created by
// the auth flow; this service only references them.
type Profile struct {
	ID        string    `json:"id"`
	Username  *string   `json:"username"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}
