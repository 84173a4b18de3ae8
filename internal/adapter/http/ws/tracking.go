package wshandler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/dispatch-engine/pkg/wsHub"
	"github.com/gorilla/websocket"
)

// TrackingStream pushes live tracking updates to dashboards watching a driver.
type TrackingStream struct {
	hub      *ws.ConnectionHub
	upgrader websocket.Upgrader
	l        logger.Logger
}

func NewTrackingStream(hub *ws.ConnectionHub, l logger.Logger) *TrackingStream {
	return &TrackingStream{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		l: l,
	}
}

// HandleWS godoc
// @Summary      Live driver tracking
// @Description  WebSocket stream of tracking updates for one driver
// @Tags         Tracking
// @Param        driver_id  path  string  true  "Driver ID"
// @Router       /ws/tracking/{driver_id} [get]
func (h *TrackingStream) HandleWS(w http.ResponseWriter, r *http.Request) {
	driverID := strings.TrimSpace(r.PathValue("driver_id"))
	ctx := wrap.WithDriverID(wrap.WithAction(r.Context(), types.ActionTrackingStream), driverID)

	if driverID == "" {
		http.Error(w, "driver id is required", http.StatusBadRequest)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	conn := ws.NewConn(context.WithoutCancel(ctx), driverID, raw)
	if err := h.hub.Add(conn); err != nil {
		h.l.Warn(ctx, "failed to register subscriber", "error", err.Error())
		_ = conn.Close()
		return
	}
	h.l.Debug(ctx, "tracking subscriber connected", "conn_id", conn.ID())

	if err := conn.Listen(); err != nil && !errors.Is(err, ws.ErrConnClosed) {
		h.l.Debug(ctx, "tracking subscriber left", "conn_id", conn.ID(), "reason", err.Error())
	}
	_ = h.hub.Delete(conn)
}

// Broadcast forwards one update to the driver's subscribers.
func (h *TrackingStream) Broadcast(ctx context.Context, update models.TrackingUpdate) {
	if update.DriverID == "" {
		return
	}
	n := h.hub.Broadcast(ctx, update.DriverID, update)
	if n > 0 {
		h.l.Debug(wrap.WithDriverID(ctx, update.DriverID), "tracking update delivered", "subscribers", n)
	}
}
