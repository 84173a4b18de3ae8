package models

import "time"

// SystemError is a failure of an asynchronous flow that had no caller to report to.
type SystemError struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	ReservationID string    `json:"reservation_id,omitempty"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

// SystemLog is an operational record written by scheduled jobs.
type SystemLog struct {
	ID        string         `json:"id"`
	Kind      string         `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}
