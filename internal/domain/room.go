// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	// CodeLen is the fixed length of a room code.
	CodeLen = 4
	// CodeAlphabet is the 36-symbol alphabet room codes are drawn from.
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// RoomTTL is how long a room entry lives in the directory after creation.
	RoomTTL = time.Hour
)

var (
	ErrInvalidCodeFormat       = errors.New("invalid room code")
	ErrCodeGenerationExhausted = errors.New("failed to generate unique room code")
	ErrRoomNotFound            = errors.New("room not found")
)

// RoomCode identifies a room. Always stored and compared uppercase.
type RoomCode string

// NormalizeCode uppercases and trims a client-submitted code. Lookup is
// case-insensitive, so every code crossing a boundary goes through here first.
func NormalizeCode(raw string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(raw)))
}

// Valid reports whether the code has the expected length. The charset is
// guaranteed at generation time, so length is the only check on submitted codes.
func (c RoomCode) Valid() bool {
	return len(c) == CodeLen
}

type Room struct {
	Code      RoomCode
	CreatedAt time.Time
}
