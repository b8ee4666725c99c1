package models

import (
	"errors"
	"fmt"
)

// ErrUserNotFound matches every UserNotFoundError via errors.Is.
var ErrUserNotFound = errors.New("user not found")

// UserNotFoundError reports a lookup of an id that has no row.
type UserNotFoundError struct {
	ID int64
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("User not found by id: %d", e.ID)
}

func (e *UserNotFoundError) Is(target error) bool {
	return target == ErrUserNotFound
}

// NotFoundID returns the missing id when err is a UserNotFoundError.
func NotFoundID(err error) (int64, bool) {
	var nf *UserNotFoundError
	if errors.As(err, &nf) {
		return nf.ID, true
	}
	return 0, false
}
