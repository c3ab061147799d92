package models

import "strings"

// OfflineUserIDPrefix marks locally minted user identifiers issued when
// registration could not reach the backend. They are superseded by a
// backend-issued id on the next successful login.
const OfflineUserIDPrefix = "offline_"

// User identifies the active device session. At most one User row exists
// locally at a time.
type User struct {
	// Email is the stable natural identifier, immutable once set.
	Email string

	// UserID is the identifier assigned by the remote service. It may be
	// superseded across logins; watchlists are re-homed when that happens.
	UserID string

	Name        string
	PhoneNumber string

	// Password is compared verbatim locally. Kept as-is from the original
	// client; see the project notes on the risk this carries.
	Password string
}

// Offline reports whether the user's id was minted locally and has not yet
// been replaced by a backend-issued one.
func (u *User) Offline() bool {
	return strings.HasPrefix(u.UserID, OfflineUserIDPrefix)
}
