package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/dispatch-engine/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/internal/service/assignment"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/validator"
)

type (
	ReservationService interface {
		Create(ctx context.Context, in models.NewReservation) (*models.Reservation, error)
		ValidatePayment(ctx context.Context, caller models.Caller, reservationID string) (*models.Reservation, error)
	}

	AssignmentService interface {
		ManualAssign(ctx context.Context, caller models.Caller, reservationID, driverID string) (*assignment.ManualResult, error)
		Complete(ctx context.Context, caller models.Caller, reservationID, driverID string) error
		Cancel(ctx context.Context, caller models.Caller, reservationID, reason string) error
	}
)

type Reservation struct {
	reservations ReservationService
	assignment   AssignmentService
	l            logger.Logger
}

func NewReservation(reservations ReservationService, assignment AssignmentService, l logger.Logger) *Reservation {
	return &Reservation{
		reservations: reservations,
		assignment:   assignment,
		l:            l,
	}
}

// Create godoc
// @Summary      Create reservation
// @Description  Creates a pending reservation and emits reservation.created
// @Tags         Reservations
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CreateReservationRequest  true  "Reservation"
// @Success      201      {object}  models.Reservation
// @Failure      400      {object}  map[string]any
// @Failure      422      {object}  map[string]any
// @Router       /reservations [post]
func (h *Reservation) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionCreateReservation)

	var req dto.CreateReservationRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, v.Errors)
		return
	}

	res, err := h.reservations.Create(ctx, req.ToModel())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create reservation", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"reservation": res}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w)
		return
	}

	h.l.Info(wrap.WithReservationID(ctx, res.ID), "reservation created")
}

// AssignDriver godoc
// @Summary      Assign driver manually
// @Description  Links a driver to the reservation on behalf of the caller
// @Tags         Reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        reservation_id  path      string                    true  "Reservation ID"
// @Param        request         body      dto.AssignDriverRequest  true  "Driver"
// @Success      200             {object}  assignment.ManualResult
// @Failure      401             {object}  map[string]any
// @Failure      404             {object}  map[string]any
// @Failure      412             {object}  map[string]any
// @Router       /reservations/{reservation_id}/assign [post]
func (h *Reservation) AssignDriver(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionManualAssign)
	reservationID := r.PathValue("reservation_id")

	var req dto.AssignDriverRequest
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

	result, err := h.assignment.ManualAssign(ctx, models.CallerFromContext(ctx), reservationID, req.DriverID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "manual assignment failed", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{
		"success": result.Success,
		"message": result.Message,
		"driver":  result.Driver,
	}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w)
	}
}

// Complete godoc
// @Summary      Complete ride
// @Description  Marks the reservation completed and frees the driver
// @Tags         Reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        reservation_id  path      string                   true   "Reservation ID"
// @Param        request         body      dto.CompleteRideRequest  false  "Driver override"
// @Success      200             {object}  dto.StatusResponse
// @Failure      401             {object}  map[string]any
// @Failure      404             {object}  map[string]any
// @Failure      412             {object}  map[string]any
// @Router       /reservations/{reservation_id}/complete [post]
func (h *Reservation) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionCompleteRide)
	reservationID := r.PathValue("reservation_id")

	var req dto.CompleteRideRequest
	if hasBody(r) {
		if err := readJSON(w, r, &req); err != nil {
			badRequestResponse(w, err.Error())
			return
		}
	}

	if err := h.assignment.Complete(ctx, models.CallerFromContext(ctx), reservationID, req.DriverID); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to complete ride", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"success": true, "message": "ride completed"}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w)
	}
}

// Cancel godoc
// @Summary      Cancel reservation
// @Description  Cancels the reservation and frees its driver
// @Tags         Reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        reservation_id  path      string                        true   "Reservation ID"
// @Param        request         body      dto.CancelReservationRequest  false  "Reason"
// @Success      200             {object}  dto.StatusResponse
// @Failure      401             {object}  map[string]any
// @Failure      404             {object}  map[string]any
// @Failure      412             {object}  map[string]any
// @Router       /reservations/{reservation_id}/cancel [post]
func (h *Reservation) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionCancelBooking)
	reservationID := r.PathValue("reservation_id")

	var req dto.CancelReservationRequest
	if hasBody(r) {
		if err := readJSON(w, r, &req); err != nil {
			badRequestResponse(w, err.Error())
			return
		}
	}

	if err := h.assignment.Cancel(ctx, models.CallerFromContext(ctx), reservationID, req.Reason); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to cancel reservation", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"success": true, "message": "reservation cancelled"}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w)
	}
}

// ValidatePayment godoc
// @Summary      Validate payment
// @Description  Flags the payment as validated; settlement follows asynchronously
// @Tags         Reservations
// @Produce      json
// @Security     BearerAuth
// @Param        reservation_id  path      string  true  "Reservation ID"
// @Success      200             {object}  models.Reservation
// @Failure      401             {object}  map[string]any
// @Failure      404             {object}  map[string]any
// @Router       /reservations/{reservation_id}/payment [post]
func (h *Reservation) ValidatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionPaymentValidated)
	reservationID := r.PathValue("reservation_id")

	res, err := h.reservations.ValidatePayment(ctx, models.CallerFromContext(ctx), reservationID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to validate payment", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"reservation": res}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w)
	}
}
