package models

import (
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/Temutjin2k/dispatch-engine/pkg/money"
	"github.com/shopspring/decimal"
)

type Driver struct {
	ID        string             `json:"id"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	Phone     string             `json:"phone"`
	Status    types.DriverStatus `json:"status"`
	Position  *Position          `json:"position,omitempty"`

	// Balance is stored under two legacy column names; both are loosely typed text.
	Balance       *string `json:"balance,omitempty"`
	BalanceLegacy *string `json:"balance_legacy,omitempty"`

	// CurrentBookingID and ActiveReservationID must always hold the same value.
	CurrentBookingID    *string `json:"current_booking_id,omitempty"`
	ActiveReservationID *string `json:"active_reservation_id,omitempty"`

	EarningsDay    decimal.Decimal `json:"earnings_day"`
	EarningsWeek   decimal.Decimal `json:"earnings_week"`
	EarningsMonth  decimal.Decimal `json:"earnings_month"`
	EarningsTotal  decimal.Decimal `json:"earnings_total"`
	CompletedRides int             `json:"completed_rides"`
	PaidRides      int             `json:"paid_rides"`

	LastActivityAt   *time.Time `json:"last_activity_at,omitempty"`
	LastAssignmentAt *time.Time `json:"last_assignment_at,omitempty"`
	PushToken        string     `json:"-"`
}

func (d *Driver) FullName() string {
	switch {
	case d.FirstName == "":
		return d.LastName
	case d.LastName == "":
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

// RawBalance returns the stored balance, preferring the legacy column when it is set.
func (d *Driver) RawBalance() *string {
	if d.BalanceLegacy != nil {
		return d.BalanceLegacy
	}
	return d.Balance
}

// AvailableBalance is the parsed value of RawBalance, zero when absent or malformed.
func (d *Driver) AvailableBalance() decimal.Decimal {
	return money.Decimal(d.RawBalance())
}

// HasBooking reports whether either booking link points at a reservation.
func (d *Driver) HasBooking() bool {
	return nonEmpty(d.CurrentBookingID) || nonEmpty(d.ActiveReservationID)
}

// BookingID returns the current reservation, preferring CurrentBookingID.
func (d *Driver) BookingID() (string, bool) {
	if nonEmpty(d.CurrentBookingID) {
		return *d.CurrentBookingID, true
	}
	if nonEmpty(d.ActiveReservationID) {
		return *d.ActiveReservationID, true
	}
	return "", false
}

// LastSeen is the last activity time, falling back to the position fix time.
func (d *Driver) LastSeen() *time.Time {
	if d.LastActivityAt != nil {
		return d.LastActivityAt
	}
	if d.Position != nil {
		return d.Position.Timestamp
	}
	return nil
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

// DriverCredit is the driver side of one settlement.
type DriverCredit struct {
	ReservationID string
	Amount        decimal.Decimal
	NewBalance    decimal.Decimal
	CreditedAt    time.Time
}
