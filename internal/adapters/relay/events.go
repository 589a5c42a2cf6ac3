package relay

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/SriBalajiKalepu/SpeedShare/internal/core"
)

// Inbound events degrade silently on malformed payloads — the engine decides
// what counts as valid, the adapter only decodes. send-file is the single
// event that replies to its caller.

func (ctl *Controller) handleJoinRoom(id core.ConnID, p *wsPeer, data []byte) {
	type joinPayload struct {
		Type     string `json:"type"`
		RoomCode string `json:"roomCode"`
	}
	var pl joinPayload
	if err := json.Unmarshal(data, &pl); err != nil {
		log.Warn().Err(err).Str("module", "relay").Str("conn", string(id)).Msg("bad join-room payload")
		return
	}
	if !ctl.Limiter.Allow(id) {
		log.Warn().Str("module", "relay").Str("conn", string(id)).Msg("join rate limit hit")
		return
	}
	ctl.Engine.HandleJoin(id, p, pl.RoomCode)
}

func (ctl *Controller) handleSendMessage(id core.ConnID, data []byte) {
	type messagePayload struct {
		Type     string `json:"type"`
		RoomCode string `json:"roomCode"`
		Message  string `json:"message"`
		Sender   string `json:"sender,omitempty"`
	}
	var pl messagePayload
	if err := json.Unmarshal(data, &pl); err != nil {
		log.Warn().Err(err).Str("module", "relay").Str("conn", string(id)).Msg("bad send-message payload")
		return
	}
	ctl.Engine.HandleMessage(id, pl.RoomCode, pl.Message, pl.Sender)
}

func (ctl *Controller) handleSendFile(id core.ConnID, p *wsPeer, data []byte) {
	type filePayload struct {
		Type     string `json:"type"`
		RoomCode string `json:"roomCode"`
		FileName string `json:"fileName"`
		MimeType string `json:"mimeType,omitempty"`
		Data     string `json:"data"`
	}
	var pl filePayload
	if err := json.Unmarshal(data, &pl); err != nil {
		log.Warn().Err(err).Str("module", "relay").Str("conn", string(id)).Msg("bad send-file payload")
		ctl.sendJSON(p, core.FileAck{Type: core.EventFileAck, Error: "Invalid payload"})
		return
	}

	ack := ctl.Engine.HandleFile(id, p, pl.RoomCode, pl.FileName, pl.MimeType, pl.Data)
	if !ack.Reply {
		return
	}
	if ack.Success {
		ctl.sendJSON(p, core.FileAck{Type: core.EventFileAck, Success: true})
		return
	}
	ctl.sendJSON(p, core.FileAck{Type: core.EventFileAck, Error: ack.Error})
}

func (ctl *Controller) handleEndRoom(id core.ConnID, data []byte) {
	type endPayload struct {
		Type     string `json:"type"`
		RoomCode string `json:"roomCode"`
	}
	var pl endPayload
	if err := json.Unmarshal(data, &pl); err != nil {
		log.Warn().Err(err).Str("module", "relay").Str("conn", string(id)).Msg("bad end-room payload")
		return
	}
	ctl.Engine.HandleEndRoom(id, pl.RoomCode)
}
