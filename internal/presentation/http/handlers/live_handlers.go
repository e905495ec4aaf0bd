package handlers

import (
	"net/http"

	"github.com/beaconworks/beacon-go/internal/infrastructure/messaging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// LiveHandlers upgrades admin dashboard connections onto the live feed.
type LiveHandlers struct {
	broadcaster *messaging.Broadcaster
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

// NewLiveHandlers creates live feed handlers with injected dependencies.
func NewLiveHandlers(broadcaster *messaging.Broadcaster, logger *logging.ChanneledLogger) *LiveHandlers {
	return &LiveHandlers{
		broadcaster: broadcaster,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are enforced by the CORS layer in front of this.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetLiveFeed handles GET /api/v1/admin/live - websocket upgrade for the live event feed.
func (h *LiveHandlers) GetLiveFeed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Live().Error("Live feed upgrade failed", "error", err.Error())
		return
	}
	h.broadcaster.Register(conn)
}
