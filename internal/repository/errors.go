// Package repository implements the account store on top of MySQL. Sentinel
// errors defined here let the service layer distinguish "row does not exist"
// from genuine persistence failures without depending on database/sql.
package repository

import "errors"

// ErrUserNotFound is returned when no account matches the given email or id,
// or when an update touched no rows.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned by Create when the email is already registered.
// Handlers should translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
