package http

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SriBalajiKalepu/SpeedShare/internal/adapters/relay"
	"github.com/SriBalajiKalepu/SpeedShare/internal/config"
	"github.com/SriBalajiKalepu/SpeedShare/internal/core"
	"github.com/SriBalajiKalepu/SpeedShare/internal/metrics"
)

// ClientTokenMiddleware tags every client with a stable cookie token. It is a
// log/correlation aid only, never an identity check.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, dir core.RoomDirectory, ctl *relay.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{cfg.AllowedOrigin}
	corsCfg.AllowCredentials = true
	r.Use(cors.New(corsCfg))
	r.Use(ClientTokenMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	log.Info().Str("module", "adapters.http").Str("origin", cfg.AllowedOrigin).Msg("router setup")

	rooms := NewRoomHandlers(dir)
	api := r.Group("/api")
	api.POST("/room", rooms.CreateRoom)
	api.GET("/rooms/:code", rooms.CheckRoom)
	api.DELETE("/rooms/:code", rooms.EndRoom)

	api.GET("/ws/relay", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws relay endpoint hit")
		ctl.HandleRelay(ctx, c)
	})

	return r
}
