// Package common contains names shared across the client packages: HTTP
// header names and the keys under which state lives in local storage.
package common

const (
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"
)

// Local storage keys. The layout matches what the browser frontend keeps in
// localStorage so a profile exported from one can be read by the other.
const (
	KeyToken    = "token"
	KeyUserID   = "userId"
	KeyUserInfo = "userInfo"
	KeyLanguage = "language"
	KeyTheme    = "theme"

	// KeyUserSettingsPrefix is followed by the preference owner key
	// (username, or GuestKey when nobody is logged in).
	KeyUserSettingsPrefix = "userSettings_"
)

// GuestKey owns the preferences used while no session exists.
const GuestKey = "guest"

// UserSettingsKey returns the storage key of owner's preference record.
func UserSettingsKey(owner string) string {
	return KeyUserSettingsPrefix + owner
}
