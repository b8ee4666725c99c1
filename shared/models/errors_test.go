package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserNotFoundError(t *testing.T) {
	err := fmt.Errorf("load: %w", &UserNotFoundError{ID: 42})

	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected errors.Is to match ErrUserNotFound")
	}
	id, ok := NotFoundID(err)
	if !ok || id != 42 {
		t.Errorf("expected id 42, got %d (ok=%v)", id, ok)
	}
	if got := (&UserNotFoundError{ID: 7}).Error(); got != "User not found by id: 7" {
		t.Errorf("unexpected message %q", got)
	}
	if _, ok := NotFoundID(errors.New("boom")); ok {
		t.Errorf("expected plain error not to match")
	}
}
