package models

import (
	"encoding/json"
	"strings"
)

// UserProfile is the server's view of a user. The client caches a copy under
// the `userInfo` key.
type UserProfile struct {
	ID             string `json:"userId" validate:"required"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// UnmarshalJSON accepts the id under either `userId` or `id`.
func (u *UserProfile) UnmarshalJSON(b []byte) error {
	type plain UserProfile
	var aux struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*u = UserProfile(aux.plain)
	if u.ID == "" {
		u.ID = aux.AltID
	}
	return nil
}

// HasInlineAvatar reports whether the picture is a local `data:` preview that
// has not been uploaded yet.
func (u UserProfile) HasInlineAvatar() bool {
	return strings.HasPrefix(u.ProfilePicture, "data:")
}

// ProfileUpdate is the body of PUT /users/{id}. A nil ProfilePicture leaves
// the avatar unchanged on the server.
type ProfileUpdate struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}
