package repository

import "errors"

// ErrNotFound is returned when a referenced row does not exist. Callers
// match it with errors.Is; the wrapping message names the entity.
var ErrNotFound = errors.New("not found")

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
