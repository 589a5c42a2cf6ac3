// Package directory implements the room directory on Redis. Redis owns the
// room lifecycle end to end: SETNX guards code uniqueness and the key TTL
// expires abandoned rooms without any signal back to the relay.
package directory

import (
	"context"
	"fmt"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/SriBalajiKalepu/SpeedShare/internal/domain"
)

const keyPrefix = "room:"

type Redis struct {
	rdb      *redis.Client
	ttl      time.Duration
	attempts int
	gen      func() string
}

// New connects to Redis and verifies connectivity before returning.
func New(ctx context.Context, addr string, db int, ttl time.Duration, attempts int) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	gen, err := newCodeGen()
	if err != nil {
		return nil, err
	}
	return &Redis{rdb: rdb, ttl: ttl, attempts: attempts, gen: gen}, nil
}

// newCodeGen builds the room-code generator over the uppercase alphanumeric
// alphabet.
func newCodeGen() (func() string, error) {
	gen, err := nanoid.CustomASCII(domain.CodeAlphabet, domain.CodeLen)
	if err != nil {
		return nil, fmt.Errorf("code generator: %w", err)
	}
	return gen, nil
}

func key(code domain.RoomCode) string {
	return keyPrefix + string(code)
}

// CreateUniqueCode draws candidate codes until SETNX wins, bounded by the
// configured attempt count. The value is the creation timestamp; the key TTL
// does the eventual cleanup.
func (r *Redis) CreateUniqueCode(ctx context.Context) (domain.RoomCode, error) {
	for i := 0; i < r.attempts; i++ {
		code := domain.RoomCode(r.gen())
		ok, err := r.rdb.SetNX(ctx, key(code), time.Now().UTC().Format(time.RFC3339), r.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("directory setnx: %w", err)
		}
		if ok {
			log.Info().Str("module", "directory").Str("room", string(code)).Dur("ttl", r.ttl).Msg("room created")
			return code, nil
		}
		log.Warn().Str("module", "directory").Str("room", string(code)).Int("attempt", i+1).Msg("code collision")
	}
	return "", domain.ErrCodeGenerationExhausted
}

// Exists reports whether the code is live. Lookup is case-insensitive because
// every caller normalizes first; this only rejects bad lengths.
func (r *Redis) Exists(ctx context.Context, code domain.RoomCode) (bool, error) {
	if !code.Valid() {
		return false, domain.ErrInvalidCodeFormat
	}
	n, err := r.rdb.Exists(ctx, key(code)).Result()
	if err != nil {
		return false, fmt.Errorf("directory exists: %w", err)
	}
	return n > 0, nil
}

// Delete removes the entry and reports whether one existed. Notifying
// connected clients is the relay's job, not the directory's.
func (r *Redis) Delete(ctx context.Context, code domain.RoomCode) (bool, error) {
	if !code.Valid() {
		return false, domain.ErrInvalidCodeFormat
	}
	n, err := r.rdb.Del(ctx, key(code)).Result()
	if err != nil {
		return false, fmt.Errorf("directory delete: %w", err)
	}
	if n > 0 {
		log.Info().Str("module", "directory").Str("room", string(code)).Msg("room deleted")
	}
	return n > 0, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
