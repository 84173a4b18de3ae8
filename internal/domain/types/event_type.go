package types

// Exchanges
const (
	DispatchExchange     = "dispatch_topic"
	NotificationExchange = "notification_topic"
	TrackingExchange     = "tracking_fanout"
)

// Routing keys of the dispatch exchange.
const (
	KeyReservationCreated = "reservation.created"
	KeyReservationUpdated = "reservation.updated"
	KeyDriverPosition     = "driver.position"
	KeyPositionCreated    = "position.created"
)

// Durable queues consumed by the worker.
const (
	QueueAssignment = "dispatch.assignment"
	QueueSettlement = "dispatch.settlement"
	QueueTelemetry  = "dispatch.telemetry"
	QueueGeofence   = "dispatch.geofence"
)
