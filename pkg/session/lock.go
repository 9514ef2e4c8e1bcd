package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeblew999/plat-fontmatch/pkg/font"
)

// ErrInvalidSlot is returned for a slot name other than primary or secondary.
var ErrInvalidSlot = errors.New("session: slot must be primary or secondary")

// Lock pins one slot of the pair while the other keeps cycling.
type Lock string

const (
	LockNone      Lock = "none"
	LockPrimary   Lock = "primary"
	LockSecondary Lock = "secondary"
)

// ParseSlot parses a slot name. Only primary and secondary are slots.
func ParseSlot(s string) (Lock, error) {
	switch Lock(strings.ToLower(strings.TrimSpace(s))) {
	case LockPrimary:
		return LockPrimary, nil
	case LockSecondary:
		return LockSecondary, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
}

// ParseLock parses a lock mode, treating empty as none.
func ParseLock(s string) (Lock, error) {
	if strings.TrimSpace(s) == "" || Lock(strings.ToLower(s)) == LockNone {
		return LockNone, nil
	}
	return ParseSlot(s)
}

// contextKey fingerprints the inputs that decide the next candidate: the lock
// mode and, when locked, the pinned family.
func contextKey(lock Lock, pair font.Pair) string {
	switch lock {
	case LockPrimary:
		return "lock-primary:" + pair.Primary.Family
	case LockSecondary:
		return "lock-secondary:" + pair.Secondary.Family
	default:
		return "unlocked"
	}
}
