package model

import "time"

// User represents an account record as stored in the `users` table. The
// password digest is a bcrypt hash. RefreshTokenHash holds the digest of the
// single outstanding refresh token; it is nil when the user has never logged
// in or has signed out. It is the only column the session core mutates.
//
// Fields:
//  ID               – primary key identifier of the user.
//  FirstName        – given name, embedded in the token payload's display name.
//  LastName         – family name.
//  Email            – unique email address (stored lower-cased).
//  PasswordHash     – bcrypt hashed password.
//  RefreshTokenHash – digest of the active refresh token (nil if none).
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
	ID               uint64    // users.id
	FirstName        string    // users.first_name
	LastName         string    // users.last_name
	Email            string    // users.email
	PasswordHash     string    // users.password_hash
	RefreshTokenHash *string   // users.refresh_token_hash (nullable)
	CreatedAt        time.Time // users.created_at
	UpdatedAt        time.Time // users.updated_at
}

// DisplayName joins the name parts the way they appear in token payloads.
func (u User) DisplayName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
