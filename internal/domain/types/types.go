package types

type ServiceMode string

// Dispatch API - callable operations, intake and tracking queries
// Dispatch Worker - event-driven triggers consumed from RabbitMQ
// Dispatch Scheduler - periodic reconciliation jobs
const (
	APIService       ServiceMode = "dispatch-api"
	WorkerService    ServiceMode = "dispatch-worker"
	SchedulerService ServiceMode = "dispatch-scheduler"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusAssigned  ReservationStatus = "assigned"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverOnRide    DriverStatus = "on_ride"
	DriverOffline   DriverStatus = "offline"
)

type AssignmentMode string

const (
	ModeAutomatic AssignmentMode = "automatic"
	ModeManual    AssignmentMode = "manual"
)

type RecipientType string

const (
	RecipientAdmin  RecipientType = "admin"
	RecipientDriver RecipientType = "driver"
)

type NotificationType string

func (n NotificationType) String() string {
	return string(n)
}

const (
	NotifyManualAssignment    NotificationType = "manual_assignment_required"
	NotifyNoDriver            NotificationType = "no_driver_available"
	NotifyNoDriverNearby      NotificationType = "no_driver_nearby"
	NotifyAssignmentSucceeded NotificationType = "assignment_succeeded"
	NotifyInactiveDrivers     NotificationType = "inactive_drivers"

	NotifyNewRide        NotificationType = "new_ride"
	NotifyRideWithdrawn  NotificationType = "ride_withdrawn"
	NotifyCreditReceived NotificationType = "credit_received"
)

// Version markers stamped on settled reservations and ledger rows.
const (
	CreditVersionTrigger  = "trigger-v2-secure"
	CreditVersionRecovery = "recovery-manual"
)

// AdminIdentity is recorded as the actor when the caller used an admin token.
const AdminIdentity = "admin"
