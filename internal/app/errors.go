package app

import "errors"

var (
	// ErrValidation wraps every input rejection; the HTTP layer maps it to 400.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound means the addressed record does not exist for this user.
	ErrNotFound = errors.New("not found")
)

// Invalidator is told whenever data feeding a user's insights changes.
type Invalidator interface {
	Invalidate(userID int64)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(int64) {}

func orNoop(inv Invalidator) Invalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}

const dayLayout = "2006-01-02"
