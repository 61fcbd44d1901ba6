// Package repository implements raw-SQL data access for the theatre API.
// This file defines the sentinel errors and driver-error helpers shared by
// the individual repositories.  Handlers translate these sentinels into
// HTTP responses; raw driver errors never leave this package for the
// constraint classes we care about.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup by id matches no row.  Handlers
// translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicateName is returned when an insert or update collides with a
// unique-name key (genres, halls).  Handlers translate it into HTTP 409.
var ErrDuplicateName = errors.New("name already exists")

// ErrEmailExists is the duplicate-key translation for users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrSeatTaken is returned when the atomic ticket insert violates
// uniq_seat_per_performance.  The engine cannot tell which seat collided
// and reports one collective message.
var ErrSeatTaken = errors.New("some seat is already taken for this performance")

// ErrShowTimeTaken is returned when a performance insert or update
// violates uniq_show_time_per_hall.
var ErrShowTimeTaken = errors.New("hall already has a performance at this time")

// ErrProtected is returned when a delete is blocked by a RESTRICT foreign
// key, e.g. removing a play that still has performances.  Handlers
// translate it into HTTP 409.
var ErrProtected = errors.New("referenced by other records")

// ErrBadReference is returned when an insert links to an entity that does
// not exist (foreign key violation on write).  Handlers translate it into
// a field-level validation failure.
var ErrBadReference = errors.New("referenced entity does not exist")

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062).  The engine relies on this signal for seat contention.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isRestricted reports whether err is a MySQL restricted-delete violation
// (error 1451, row referenced by a foreign key).
func isRestricted(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}

// isFKViolation reports whether err is a MySQL foreign-key failure on
// insert or update (error 1452, referenced row missing).
func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}
