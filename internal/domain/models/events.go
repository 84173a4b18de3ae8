package models

import "time"

// Messages carried on the dispatch exchange. Each one mirrors a write to the store.

type ReservationCreatedEvent struct {
	Reservation Reservation `json:"reservation"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

type ReservationUpdatedEvent struct {
	Before     Reservation `json:"before"`
	After      Reservation `json:"after"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type DriverPositionEvent struct {
	DriverID   string    `json:"driver_id"`
	Before     Driver    `json:"before"`
	After      Driver    `json:"after"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PositionCreatedEvent struct {
	Sample     PositionSample `json:"sample"`
	OccurredAt time.Time      `json:"occurred_at"`
}
