package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/SriBalajiKalepu/SpeedShare/internal/core"
	"github.com/SriBalajiKalepu/SpeedShare/internal/domain"
	"github.com/SriBalajiKalepu/SpeedShare/internal/metrics"
)

// RoomHandlers is the request/response side of room management. It talks to
// the directory only; ending a room here does not notify relay members — the
// client sends the end-room relay event for that.
type RoomHandlers struct {
	Dir core.RoomDirectory
}

func NewRoomHandlers(dir core.RoomDirectory) *RoomHandlers {
	return &RoomHandlers{Dir: dir}
}

type createRoomResponse struct {
	Code domain.RoomCode `json:"code"`
}

type checkRoomResponse struct {
	Exists bool   `json:"exists"`
	Error  string `json:"error,omitempty"`
}

type endRoomResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateRoom generates a fresh code with the directory TTL already armed.
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	code, err := h.Dir.CreateUniqueCode(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrCodeGenerationExhausted) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate unique room code"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	metrics.RoomsCreated.Inc()
	c.JSON(http.StatusCreated, createRoomResponse{Code: code})
}

// CheckRoom answers whether a code is live.
func (h *RoomHandlers) CheckRoom(c *gin.Context) {
	code := domain.NormalizeCode(c.Param("code"))
	if !code.Valid() {
		c.JSON(http.StatusBadRequest, checkRoomResponse{Exists: false, Error: "Invalid room code"})
		return
	}
	exists, err := h.Dir.Exists(c.Request.Context(), code)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", string(code)).Msg("check room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, checkRoomResponse{Exists: exists})
}

// EndRoom deletes the directory entry. 404 when nothing was live under the
// code — the one boundary where an unknown room is an error rather than a
// silent no-op.
func (h *RoomHandlers) EndRoom(c *gin.Context) {
	code := domain.NormalizeCode(c.Param("code"))
	if !code.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room code"})
		return
	}
	deleted, err := h.Dir.Delete(c.Request.Context(), code)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", string(code)).Msg("end room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	metrics.RoomsEnded.Inc()
	c.JSON(http.StatusOK, endRoomResponse{Success: true, Message: "Room ended successfully"})
}
