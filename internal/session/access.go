package session

import "errors"

// ErrNotFound is returned for an unknown card id and for an owner key
// mismatch alike, so callers cannot probe for other owners' cards.
var ErrNotFound = errors.New("scorecard not found")

// Access identifies who is asking for a scorecard.
type Access struct {
	Key      string
	Internal bool
}

// InternalAccess bypasses the owner check.
var InternalAccess = Access{Internal: true}

// OwnerAccess returns access for the holder of key.
func OwnerAccess(key string) Access {
	return Access{Key: key}
}

func (a Access) allows(ownerKey string) bool {
	return a.Internal || a.Key == ownerKey
}
