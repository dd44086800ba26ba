package caller

import (
	"errors"
	"strings"
)

var ErrAnonymous = errors.New("caller identity is missing")

// Identity is a verified caller. Only authentication adapters build one, from
// claims they have already validated; storage operations never derive it from
// request input.
type Identity struct {
	userID string
}

func FromVerifiedClaims(userID string) (Identity, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Identity{}, ErrAnonymous
	}
	return Identity{userID: userID}, nil
}

func (i Identity) UserID() string { return i.userID }

func (i Identity) IsZero() bool { return i.userID == "" }
