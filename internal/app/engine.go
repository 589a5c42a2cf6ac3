package app

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SriBalajiKalepu/SpeedShare/internal/core"
	"github.com/SriBalajiKalepu/SpeedShare/internal/domain"
	"github.com/SriBalajiKalepu/SpeedShare/internal/metrics"
)

const (
	defaultSender   = "anonymous"
	defaultMimeType = "application/octet-stream"
)

// Engine is the relay core: it turns inbound connection events into fan-out
// deliveries through the Registry. Handlers are non-blocking in-memory
// operations; a slow peer drops its own delivery and never stalls the rest.
// Malformed or out-of-state events are discarded without error — only
// send-file reports back to the caller.
type Engine struct {
	Registry *Registry
}

func NewEngine(reg *Registry) *Engine {
	return &Engine{Registry: reg}
}

// HandleJoin registers the connection under the room code. Fire-and-forget:
// no ack, no directory check, bad codes are dropped. Joining a second room
// does not leave the first — a connection may hold several memberships.
func (e *Engine) HandleJoin(id core.ConnID, conn core.PeerConn, rawCode string) {
	code := domain.NormalizeCode(rawCode)
	if !code.Valid() {
		return
	}
	e.Registry.Join(id, code, conn)
}

// HandleMessage fans a text message out to every other member of the room.
// The sender never gets an echo; their client renders the message locally.
func (e *Engine) HandleMessage(id core.ConnID, rawCode, message, sender string) {
	code := domain.NormalizeCode(rawCode)
	if !code.Valid() || message == "" {
		return
	}
	if sender == "" {
		sender = defaultSender
	}
	frame, err := json.Marshal(core.ReceiveMessage{
		Type:      core.EventReceiveMessage,
		Message:   message,
		Sender:    sender,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.engine").Msg("marshal message")
		return
	}
	res := e.fanOut(e.Registry.MembersExcept(code, id), frame)
	metrics.MessagesRelayed.Inc()
	log.Debug().Str("module", "app.engine").Str("conn", string(id)).Str("room", string(code)).
		Int("sent_to", res.SentTo).Int("dropped", res.Dropped).Msg("message relayed")
}

// HandleFile fans a file transfer out to the room and acks the caller. A
// sender that is not yet a registered member is joined implicitly first:
// knowing the code is treated as proof it belongs in the room. Payload size
// is bounded at the transport read limit, not here.
func (e *Engine) HandleFile(id core.ConnID, conn core.PeerConn, rawCode, fileName, mimeType, data string) core.Ack {
	code := domain.NormalizeCode(rawCode)
	if !code.Valid() || data == "" || fileName == "" {
		log.Warn().Str("module", "app.engine").Str("conn", string(id)).Str("room", string(code)).
			Str("file_name", fileName).Bool("has_data", data != "").Msg("invalid send-file payload")
		return core.AckError("Invalid payload")
	}
	if !e.Registry.IsMember(code, id) {
		log.Info().Str("module", "app.engine").Str("conn", string(id)).Str("room", string(code)).Msg("implicit join on send-file")
		e.Registry.Join(id, code, conn)
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	frame, err := json.Marshal(core.ReceiveFile{
		Type:      core.EventReceiveFile,
		FileName:  fileName,
		MimeType:  mimeType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.engine").Msg("marshal file")
		return core.AckError("Unknown error")
	}
	res := e.fanOut(e.Registry.MembersExcept(code, id), frame)
	metrics.FilesRelayed.Inc()
	log.Info().Str("module", "app.engine").Str("conn", string(id)).Str("room", string(code)).
		Str("file_name", fileName).Int("bytes", len(data)).Int("sent_to", res.SentTo).Msg("file relayed")
	return core.AckSuccess()
}

// HandleEndRoom broadcasts the termination to every member, the requester
// included. It does not delete the directory entry (the client issues that
// request separately) and it does not evict registry membership: members
// linger until their own disconnect.
func (e *Engine) HandleEndRoom(id core.ConnID, rawCode string) {
	code := domain.NormalizeCode(rawCode)
	if !code.Valid() {
		return
	}
	frame, err := json.Marshal(core.RoomEnded{Type: core.EventRoomEnded})
	if err != nil {
		log.Error().Err(err).Str("module", "app.engine").Msg("marshal room-ended")
		return
	}
	res := e.fanOut(e.Registry.Members(code), frame)
	log.Info().Str("module", "app.engine").Str("conn", string(id)).Str("room", string(code)).
		Int("sent_to", res.SentTo).Msg("room ended")
}

// HandleDisconnect reclaims all registry membership for the connection.
// Peers get no notification; presence is a non-goal.
func (e *Engine) HandleDisconnect(id core.ConnID, reason string) {
	e.Registry.RemoveEverywhere(id)
	log.Info().Str("module", "app.engine").Str("conn", string(id)).Str("reason", reason).Msg("disconnected")
}

// fanOut delivers one frame to each peer, fire-and-forget. TrySend never
// blocks, so a full or closed peer only loses its own copy.
func (e *Engine) fanOut(peers []core.PeerConn, frame core.Frame) core.PublishResult {
	res := core.PublishResult{}
	for _, p := range peers {
		if err := p.TrySend(frame); err != nil {
			res.Dropped++
			continue
		}
		res.SentTo++
	}
	return res
}
