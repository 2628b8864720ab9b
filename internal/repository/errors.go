// Package repository defines sentinel error values reused across the
// repositories.  Handlers use them to map storage failures onto HTTP
// status codes: ErrEmailExists becomes 409, the not-found errors 404,
// everything else a generic 500.
package repository

import "errors"

// ErrEmailExists is returned when a signup collides with an existing
// email address.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user row matches the requested
// identifier or email.
var ErrUserNotFound = errors.New("user not found")

// ErrReservationNotFound is returned when a confirm or delete references
// a reservation id that does not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrHallNotFound is returned when a hall lookup matches no row.
var ErrHallNotFound = errors.New("hall not found")
