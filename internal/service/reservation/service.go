package reservation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/money"
	"github.com/Temutjin2k/dispatch-engine/pkg/trm"
	"github.com/google/uuid"
)

// Service is the write side of reservations that lies outside dispatch:
// intake and payment validation. Both emit the events that drive the worker.
type Service struct {
	repo      Repo
	publisher Publisher
	trm       trm.TxManager
	now       func() time.Time
	l         logger.Logger
}

func New(repo Repo, publisher Publisher, trm trm.TxManager, l logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		trm:       trm,
		now:       time.Now,
		l:         l,
	}
}

// Create stores a pending reservation and announces it.
func (s *Service) Create(ctx context.Context, in models.NewReservation) (*models.Reservation, error) {
	if err := validate(in); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	now := s.now().UTC()
	r := &models.Reservation{
		ID:                 uuid.NewString(),
		Status:             types.StatusPending,
		OriginAddress:      strings.TrimSpace(in.OriginAddress),
		Origin:             in.Origin,
		DestinationAddress: strings.TrimSpace(in.DestinationAddress),
		Destination:        in.Destination,
		ClientName:         strings.TrimSpace(in.ClientName),
		ClientPhone:        strings.TrimSpace(in.ClientPhone),
		ClientEmail:        strings.TrimSpace(in.ClientEmail),
		RejectedDrivers:    []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if in.EstimatedPrice != "" {
		price := in.EstimatedPrice
		r.EstimatedPrice = &price
	}
	ctx = wrap.WithReservationID(ctx, r.ID)

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to create reservation: %w", err))
	}

	if err := s.publisher.PublishReservationCreated(ctx, models.ReservationCreatedEvent{
		Reservation: *r,
		OccurredAt:  now,
	}); err != nil {
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish reservation created", err)
	}

	s.l.Info(ctx, "reservation created")
	return r, nil
}

// ValidatePayment marks the reservation paid. Validating an already paid
// reservation succeeds without emitting a second event.
func (s *Service) ValidatePayment(ctx context.Context, caller models.Caller, reservationID string) (*models.Reservation, error) {
	ctx = wrap.WithReservationID(wrap.WithAction(ctx, types.ActionPaymentValidated), reservationID)

	if !caller.Authenticated {
		return nil, wrap.Error(ctx, types.ErrUnauthenticated)
	}
	if reservationID == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: reservation id is required", types.ErrInvalidArgument))
	}

	var (
		before, after models.Reservation
		changed       bool
	)
	now := s.now().UTC()
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		r, err := s.repo.GetForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		before, after = *r, *r
		if r.PaymentValidated {
			return nil
		}

		if err := s.repo.SetPaymentValidated(ctx, reservationID, now); err != nil {
			return err
		}
		after.PaymentValidated = true
		after.UpdatedAt = now
		changed = true
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to validate payment: %w", err))
	}
	if !changed {
		return &after, nil
	}

	if err := s.publisher.PublishReservationUpdated(ctx, models.ReservationUpdatedEvent{
		Before:     before,
		After:      after,
		OccurredAt: now,
	}); err != nil {
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish reservation updated", err)
	}

	s.l.Info(ctx, "payment validated", "actor", caller.Actor())
	return &after, nil
}

func validate(in models.NewReservation) error {
	switch {
	case strings.TrimSpace(in.OriginAddress) == "":
		return fmt.Errorf("%w: origin address is required", types.ErrInvalidArgument)
	case strings.TrimSpace(in.DestinationAddress) == "":
		return fmt.Errorf("%w: destination address is required", types.ErrInvalidArgument)
	case strings.TrimSpace(in.ClientName) == "":
		return fmt.Errorf("%w: client name is required", types.ErrInvalidArgument)
	case strings.TrimSpace(in.ClientPhone) == "":
		return fmt.Errorf("%w: client phone is required", types.ErrInvalidArgument)
	case in.EstimatedPrice != "" && money.Parse(in.EstimatedPrice) < 0:
		return fmt.Errorf("%w: estimated price must not be negative", types.ErrInvalidArgument)
	case !validLocation(in.Origin) || !validLocation(in.Destination):
		return fmt.Errorf("%w: coordinates out of range", types.ErrInvalidArgument)
	}
	return nil
}

func validLocation(l *models.Location) bool {
	if l == nil {
		return true
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}
