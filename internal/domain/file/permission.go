package file

import (
	"strings"
	"time"
)

type Level string

const (
	LevelNone  Level = ""
	LevelRead  Level = "read"
	LevelWrite Level = "write"
	LevelOwner Level = "owner"
)

var levelRank = map[Level]int{
	LevelNone:  0,
	LevelRead:  1,
	LevelWrite: 2,
	LevelOwner: 3,
}

type (
	Permission struct {
		FileID    ID
		UserID    string
		Level     Level
		GrantedBy *string

		CreatedAt time.Time
	}
	Permissions []*Permission
)

// ParseLevel accepts only the three grantable levels.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return LevelNone, ErrInvalidLevel
	}
	return l, nil
}

func (l Level) Valid() bool {
	switch l {
	case LevelRead, LevelWrite, LevelOwner:
		return true
	}
	return false
}

// Rank orders levels owner > write > read > none. Unknown values rank as none.
func (l Level) Rank() int { return levelRank[l] }

func (l Level) AtLeast(required Level) bool { return l.Rank() >= required.Rank() }

func (l Level) String() string {
	if l == LevelNone {
		return "none"
	}
	return string(l)
}
