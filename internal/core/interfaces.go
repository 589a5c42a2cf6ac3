package core

import (
	"context"

	"github.com/SriBalajiKalepu/SpeedShare/internal/domain"
)

// Frame is an encoded outbound event, ready for the wire.
type Frame []byte

// ConnID identifies one transport session for its whole lifetime.
type ConnID string

// PeerConn abstracts the transport endpoint of a single connection.
// Owned by the adapter; the adapter must Close() it.
type PeerConn interface {
	TrySend(Frame) error
	Close()
}

// RoomDirectory is the TTL-backed store of live room codes. It owns the Room
// entity; the relay only ever asks it to create, check or delete entries.
// Expiry is store-side and silent: nobody is notified when the TTL runs out.
type RoomDirectory interface {
	// CreateUniqueCode persists a fresh code with the configured TTL.
	// Fails with domain.ErrCodeGenerationExhausted when every attempt collides.
	CreateUniqueCode(ctx context.Context) (domain.RoomCode, error)

	// Exists answers whether the code is live. The code must already be
	// normalized; fails with domain.ErrInvalidCodeFormat on bad length.
	Exists(ctx context.Context, code domain.RoomCode) (bool, error)

	// Delete removes the entry and reports whether one existed.
	Delete(ctx context.Context, code domain.RoomCode) (bool, error)
}

// PublishResult reports fan-out delivery stats back to the engine.
type PublishResult struct {
	SentTo  int
	Dropped int
}

// Ack is the synchronous outcome of a relay event. Most events are
// fire-and-forget and produce the zero Ack (nothing goes back on the wire);
// send-file always produces one with Reply set.
type Ack struct {
	Reply   bool
	Success bool
	Error   string
}

// AckSuccess and AckError build the two reply-carrying outcomes.
func AckSuccess() Ack {
	return Ack{Reply: true, Success: true}
}

func AckError(reason string) Ack {
	return Ack{Reply: true, Error: reason}
}
