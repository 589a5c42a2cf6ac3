package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/SriBalajiKalepu/SpeedShare/internal/core"
	"github.com/SriBalajiKalepu/SpeedShare/internal/domain"
)

// Registry tracks which connections are joined to which rooms. It is the one
// shared mutable structure in the relay core: a single RWMutex guards both
// indexes so concurrent joins and removals on the same room cannot lose
// updates. Membership is process-local only and lost on restart.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomCode]map[core.ConnID]core.PeerConn
	byConn map[core.ConnID]map[domain.RoomCode]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[domain.RoomCode]map[core.ConnID]core.PeerConn),
		byConn: make(map[core.ConnID]map[domain.RoomCode]struct{}),
	}
}

// Join adds the connection to the room's membership set. Idempotent: joining
// the same room twice has no extra effect. Join is a local grouping operation
// and never consults the directory.
func (r *Registry) Join(id core.ConnID, code domain.RoomCode, conn core.PeerConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[code]
	if !ok {
		members = make(map[core.ConnID]core.PeerConn)
		r.rooms[code] = members
	}
	if _, ok := members[id]; ok {
		return
	}
	members[id] = conn

	codes, ok := r.byConn[id]
	if !ok {
		codes = make(map[domain.RoomCode]struct{})
		r.byConn[id] = codes
	}
	codes[code] = struct{}{}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(code)).Msg("joined room")
}

// IsMember reports whether the connection is currently in the room's set.
func (r *Registry) IsMember(code domain.RoomCode, id core.ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[code][id]
	return ok
}

// MembersExcept returns a snapshot of every other member's conn for fan-out.
// An unknown room or a room with no other members yields an empty slice;
// that is not an error.
func (r *Registry) MembersExcept(code domain.RoomCode, id core.ConnID) []core.PeerConn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[code]
	out := make([]core.PeerConn, 0, len(members))
	for cid, conn := range members {
		if cid == id {
			continue
		}
		out = append(out, conn)
	}
	return out
}

// Members returns a snapshot of every member's conn, the caller included.
func (r *Registry) Members(code domain.RoomCode) []core.PeerConn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[code]
	out := make([]core.PeerConn, 0, len(members))
	for _, conn := range members {
		out = append(out, conn)
	}
	return out
}

// MemberCount returns the size of the room's membership set.
func (r *Registry) MemberCount(code domain.RoomCode) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[code])
}

// RemoveEverywhere removes the connection from every room it joined and drops
// empty rooms. Safe to call for a connection that never joined anything.
func (r *Registry) RemoveEverywhere(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	codes, ok := r.byConn[id]
	if !ok {
		return
	}
	for code := range codes {
		if members, ok := r.rooms[code]; ok {
			delete(members, id)
			if len(members) == 0 {
				delete(r.rooms, code)
			}
		}
	}
	delete(r.byConn, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Int("rooms", len(codes)).Msg("removed everywhere")
}
