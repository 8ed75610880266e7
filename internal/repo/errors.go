package repo

import (
	"errors"

	"github.com/lib/pq"
)

// ErrConflict is returned when an insert violates a uniqueness constraint the
// caller declared interest in, e.g. a duplicate (owner, identifier) pair.
var ErrConflict = errors.New("conflict")

// ErrStorage wraps any other persistence failure (connectivity, unexpected
// constraint violations). Callers map it to a 500.
var ErrStorage = errors.New("storage error")

// ErrNotFound is returned when a row does not exist or is not visible to the
// requesting owner.
var ErrNotFound = errors.New("not found")

// uniqueViolation reports whether err is a Postgres unique_violation (23505).
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
