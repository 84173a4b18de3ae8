package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionExternalServiceFailed = "external_service_failed"
	ActionNotificationFailed    = "notification_failed"

	ActionAutoAssign    = "auto_assign"
	ActionManualAssign  = "manual_assign"
	ActionCompleteRide  = "complete_ride"
	ActionCancelBooking = "cancel_reservation"

	ActionSettlement       = "settlement"
	ActionCreditRecovery   = "credit_recovery"
	ActionDuplicateAudit   = "duplicate_credit_audit"
	ActionPaymentValidated = "payment_validated"

	ActionTimeoutSweep     = "timeout_sweep"
	ActionConsistencySweep = "consistency_sweep"
	ActionInactivitySweep  = "inactivity_sweep"
	ActionHistoryCleanup   = "history_cleanup"
	ActionDailyRollup      = "daily_stats_rollup"

	ActionPositionUpdate = "position_update"
	ActionGeofenceCheck  = "geofence_check"

	ActionCreateReservation = "create_reservation"
	ActionTrackingHistory   = "tracking_history"
	ActionTrackingStats     = "tracking_stats"
	ActionTrackingStream    = "tracking_stream"
)
