// Package relay is the websocket transport adapter for the relay engine:
// it owns the connection lifecycle and translates wire envelopes into
// engine events.
package relay

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/SriBalajiKalepu/SpeedShare/internal/app"
	"github.com/SriBalajiKalepu/SpeedShare/internal/config"
	"github.com/SriBalajiKalepu/SpeedShare/internal/core"
	"github.com/SriBalajiKalepu/SpeedShare/internal/metrics"
)

var ErrBackpressure = errors.New("backpressure")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	Engine  *app.Engine
	Limiter *JoinLimiter

	readLimit    int64
	pingPeriod   time.Duration
	writeTimeout time.Duration
}

func NewController(engine *app.Engine, limiter *JoinLimiter, cfg *config.Config) *Controller {
	return &Controller{
		Engine:       engine,
		Limiter:      limiter,
		readLimit:    cfg.ReadLimit,
		pingPeriod:   cfg.PingPeriod,
		writeTimeout: cfg.WriteTimeout,
	}
}

// wsPeer wraps one websocket with a buffered outbound queue. TrySend never
// blocks: the frame is dropped when the queue is full, so one slow peer
// cannot stall fan-out to the others. Frames queued per peer keep FIFO order
// per sender.
type wsPeer struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (p *wsPeer) TrySend(f core.Frame) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return errors.New("connection closed")
	}
	select {
	case p.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (p *wsPeer) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.send)
	_ = p.conn.Close()
	p.mu.Unlock()
}

// HandleRelay upgrades the request and runs the connection until it drops.
// Each transport session gets a fresh opaque ID; nothing about it survives
// the connection.
func (ctl *Controller) HandleRelay(ctx context.Context, c *gin.Context) {
	id := core.ConnID(uuid.NewString())

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "relay").Str("conn", string(id)).
		Str("client", c.GetString("client_token")).Msg("connected")
	metrics.RelayConnections.Inc()

	peer := &wsPeer{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	var once sync.Once
	teardown := func(reason string) {
		once.Do(func() {
			ctl.Engine.HandleDisconnect(id, reason)
			ctl.Limiter.Forget(id)
			peer.Close()
			cancel()
			metrics.RelayConnections.Dec()
		})
	}

	go ctl.writePump(ctx, id, peer)
	go ctl.readPump(ctx, id, peer, teardown)
}
