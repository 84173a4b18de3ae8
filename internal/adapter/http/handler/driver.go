package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/dispatch-engine/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/validator"
)

type (
	PositionIngestor interface {
		UpdatePosition(ctx context.Context, driverID, sessionID string, pos models.Position) (*models.PositionSample, error)
	}

	TrackingService interface {
		History(ctx context.Context, q models.HistoryQuery) ([]models.PositionPoint, error)
		Stats(ctx context.Context, driverID string) (*models.TrackingStats, error)
	}
)

type Driver struct {
	ingest   PositionIngestor
	tracking TrackingService
	l        logger.Logger
}

func NewDriver(ingest PositionIngestor, tracking TrackingService, l logger.Logger) *Driver {
	return &Driver{
		ingest:   ingest,
		tracking: tracking,
		l:        l,
	}
}

// UpdatePosition godoc
// @Summary      Report driver position
// @Description  Stores the driver's latest fix and appends it to the position history
// @Tags         Drivers
// @Accept       json
// @Produce      json
// @Param        driver_id  path      string                     true  "Driver ID"
// @Param        request    body      dto.PositionUpdateRequest  true  "Position"
// @Success      201        {object}  models.PositionSample
// @Failure      400        {object}  map[string]any
// @Failure      404        {object}  map[string]any
// @Failure      422        {object}  map[string]any
// @Router       /drivers/{driver_id}/position [post]
func (h *Driver) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	driverID := r.PathValue("driver_id")
	ctx := wrap.WithDriverID(wrap.WithAction(r.Context(), types.ActionPositionUpdate), driverID)

	var req dto.PositionUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	sample, err := h.ingest.UpdatePosition(ctx, driverID, req.SessionID, req.ToModel())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update driver position", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"sample": sample}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w)
	}
}

// History godoc
// @Summary      Driver tracking history
// @Description  Returns up to 1000 position samples, newest first
// @Tags         Tracking
// @Produce      json
// @Param        driver_id   path      string  true   "Driver ID"
// @Param        start       query     string  false  "Start time (RFC 3339 or unix ms)"
// @Param        end         query     string  false  "End time (RFC 3339 or unix ms)"
// @Param        session_id  query     string  false  "Session ID"
// @Success      200         {object}  dto.HistoryResponse
// @Failure      400         {object}  map[string]any
// @Router       /drivers/{driver_id}/tracking/history [get]
func (h *Driver) History(w http.ResponseWriter, r *http.Request) {
	driverID := r.PathValue("driver_id")
	ctx := wrap.WithDriverID(wrap.WithAction(r.Context(), types.ActionTrackingHistory), driverID)

	q, err := dto.ParseHistoryQuery(driverID, r.URL.Query().Get)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	points, err := h.tracking.History(ctx, q)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to load tracking history", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{
		"success":   true,
		"count":     len(points),
		"positions": points,
	}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w)
	}
}

// Stats godoc
// @Summary      Driver tracking stats
// @Description  Returns today, week and month distance and speed aggregates
// @Tags         Tracking
// @Produce      json
// @Param        driver_id  path      string  true  "Driver ID"
// @Success      200        {object}  dto.StatsResponse
// @Failure      400        {object}  map[string]any
// @Router       /drivers/{driver_id}/tracking/stats [get]
func (h *Driver) Stats(w http.ResponseWriter, r *http.Request) {
	driverID := r.PathValue("driver_id")
	ctx := wrap.WithDriverID(wrap.WithAction(r.Context(), types.ActionTrackingStats), driverID)

	stats, err := h.tracking.Stats(ctx, driverID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to compute tracking stats", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"success": true, "stats": stats}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w)
	}
}
