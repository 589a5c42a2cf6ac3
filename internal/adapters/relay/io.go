package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/SriBalajiKalepu/SpeedShare/internal/core"
)

// pongGrace is how long past the ping period a silent peer is tolerated.
const pongGrace = 35 * time.Second

func (ctl *Controller) writePump(ctx context.Context, id core.ConnID, p *wsPeer) {
	ticker := time.NewTicker(ctl.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-p.send:
			if !ok {
				return
			}
			if err := p.conn.SetWriteDeadline(time.Now().Add(ctl.writeTimeout)); err != nil {
				log.Error().Err(err).Str("module", "relay").Str("conn", string(id)).Msg("writePump set deadline")
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "relay").Str("conn", string(id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(ctl.writeTimeout))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, id core.ConnID, p *wsPeer, teardown func(reason string)) {
	defer func() {
		log.Info().Str("module", "relay").Str("conn", string(id)).Msg("readPump closing")
		teardown("read loop exit")
	}()

	p.conn.SetReadLimit(ctl.readLimit)
	pongWait := ctl.pingPeriod + pongGrace
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := p.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "relay").Str("conn", string(id)).Msg("readPump read error")
				}
				return
			}
			// Large file frames reset the clock too; a transfer counts as liveness.
			_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
			ctl.handleEvent(id, p, data)
		}
	}
}

func (ctl *Controller) handleEvent(id core.ConnID, p *wsPeer, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "relay").Str("conn", string(id)).Msg("bad json")
		return
	}

	switch env.Type {
	case core.EventJoinRoom:
		ctl.handleJoinRoom(id, p, data)
	case core.EventSendMessage:
		ctl.handleSendMessage(id, data)
	case core.EventSendFile:
		ctl.handleSendFile(id, p, data)
	case core.EventEndRoom:
		ctl.handleEndRoom(id, data)
	default:
		log.Warn().Str("module", "relay").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *Controller) sendJSON(p *wsPeer, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("sendJSON marshal")
		return
	}
	_ = p.TrySend(b)
}
