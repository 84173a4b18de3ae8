package models

import (
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	"github.com/shopspring/decimal"
)

type Reservation struct {
	ID     string                  `json:"id"`
	Status types.ReservationStatus `json:"status"`

	OriginAddress      string    `json:"origin_address"`
	Origin             *Location `json:"origin,omitempty"`
	OriginApproximate  bool      `json:"origin_approximate"`
	DestinationAddress string    `json:"destination_address"`
	Destination        *Location `json:"destination,omitempty"`

	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email,omitempty"`

	// EstimatedPrice is stored as loosely typed text, see money.Parse.
	EstimatedPrice *string `json:"estimated_price,omitempty"`

	DriverID        *string              `json:"driver_id,omitempty"`
	DriverName      string               `json:"driver_name,omitempty"`
	DriverPhone     string               `json:"driver_phone,omitempty"`
	AssignmentMode  types.AssignmentMode `json:"assignment_mode,omitempty"`
	AssignedAt      *time.Time           `json:"assigned_at,omitempty"`
	AssignedBy      string               `json:"assigned_by,omitempty"`
	DriverDistanceM int                  `json:"driver_distance_m"`
	DriverETAMin    int                  `json:"driver_eta_min"`

	PaymentValidated bool          `json:"payment_validated"`
	DriverCredited   bool          `json:"driver_credited"`
	Credit           *CreditRecord `json:"credit,omitempty"`

	Tracking *LiveTracking `json:"tracking,omitempty"`

	RejectedDrivers    []string `json:"rejected_drivers"`
	AssignmentAttempts int      `json:"assignment_attempts"`

	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CancelledBy  string     `json:"cancelled_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssignedDriver returns the assigned driver id if there is one.
func (r *Reservation) AssignedDriver() (string, bool) {
	if r.DriverID == nil || *r.DriverID == "" {
		return "", false
	}
	return *r.DriverID, true
}

// HasOrigin reports whether both origin coordinates are known.
func (r *Reservation) HasOrigin() bool {
	return r.Origin != nil && r.Origin.Lat != 0 && r.Origin.Lng != 0
}

// Assignment is everything written onto a reservation when a driver takes it.
type Assignment struct {
	DriverID    string
	DriverName  string
	DriverPhone string
	Mode        types.AssignmentMode
	AssignedAt  time.Time
	AssignedBy  string
	DistanceM   int
	ETAMin      int
}

// CreditRecord is the settlement stamp on a reservation.
type CreditRecord struct {
	OperationID    string          `json:"operation_id"`
	Version        string          `json:"version"`
	CreditedAt     time.Time       `json:"credited_at"`
	DriverAmount   decimal.Decimal `json:"driver_amount"`
	PlatformAmount decimal.Decimal `json:"platform_amount"`
	BalanceBefore  decimal.Decimal `json:"balance_before"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
}

// LiveTracking is the in-ride projection maintained from driver telemetry.
type LiveTracking struct {
	DriverPosition   *Position  `json:"driver_position,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	RealDistanceM    float64    `json:"real_distance_m"`
	EstimatedArrival *time.Time `json:"estimated_arrival,omitempty"`
}

// NewReservation is the intake payload.
type NewReservation struct {
	OriginAddress      string    `json:"origin_address"`
	Origin             *Location `json:"origin,omitempty"`
	DestinationAddress string    `json:"destination_address"`
	Destination        *Location `json:"destination,omitempty"`
	ClientName         string    `json:"client_name"`
	ClientPhone        string    `json:"client_phone"`
	ClientEmail        string    `json:"client_email,omitempty"`
	EstimatedPrice     string    `json:"estimated_price"`
}
