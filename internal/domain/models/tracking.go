package models

import "time"

// PositionSample is one row of the append-only position history.
type PositionSample struct {
	ID         string    `json:"id"`
	DriverID   string    `json:"driver_id"`
	SessionID  string    `json:"session_id,omitempty"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Speed      *float64  `json:"speed,omitempty"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	RecordedAt time.Time `json:"timestamp"`
}

// PositionPoint is the history row shape returned to callers.
type PositionPoint struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Speed     *float64  `json:"speed"`
	Accuracy  *float64  `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

type HistoryQuery struct {
	DriverID  string
	SessionID string
	Start     *time.Time
	End       *time.Time
	Limit     int
}

type TrackingAnomaly struct {
	ID              string    `json:"id"`
	DriverID        string    `json:"driver_id"`
	Reasons         []string  `json:"reasons"`
	Position        Position  `json:"position"`
	CalculatedSpeed float64   `json:"calculated_speed"`
	CreatedAt       time.Time `json:"created_at"`
}

// DriverStats is the running per-driver projection kept by telemetry.
type DriverStats struct {
	DriverID          string
	LastPosition      Position
	LastUpdate        time.Time
	CalculatedSpeed   float64
	DistanceIncrement float64
	Day               time.Time
}

type TrackingUpdate struct {
	DriverID      string     `json:"driver_id"`
	ReservationID string     `json:"reservation_id,omitempty"`
	Position      Position   `json:"position"`
	SpeedKmh      float64    `json:"speed_kmh"`
	DistanceKm    float64    `json:"distance_km"`
	Anomalies     []string   `json:"anomalies,omitempty"`
	ETA           *time.Time `json:"eta,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
}

// DailyStats is the rollup of one driver's samples over one local day.
type DailyStats struct {
	DriverID       string    `json:"driver_id"`
	Day            time.Time `json:"date"`
	TotalDistance  float64   `json:"total_distance"`
	TotalTime      float64   `json:"total_time"`
	AverageSpeed   float64   `json:"average_speed"`
	MaxSpeed       float64   `json:"max_speed"`
	PositionsCount int       `json:"positions_count"`
}

type PeriodStats struct {
	TotalDistance  float64  `json:"total_distance"`
	AverageSpeed   float64  `json:"average_speed"`
	MaxSpeed       float64  `json:"max_speed"`
	PositionsCount *int     `json:"positions_count,omitempty"`
	TotalTime      *float64 `json:"total_time,omitempty"`
}

type TrackingStats struct {
	Today PeriodStats    `json:"today"`
	Week  PeriodStats    `json:"week"`
	Month PeriodStats    `json:"month"`
	Total map[string]any `json:"total"`
}

type GeofenceZone struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Kind    string   `json:"type"`
	Center  Location `json:"center"`
	RadiusM float64  `json:"radius"`
}

type GeofenceAlert struct {
	ZoneID     string  `json:"zone_id"`
	ZoneName   string  `json:"zone_name"`
	Kind       string  `json:"type"`
	DistanceKm float64 `json:"distance"`
}

type GeofenceEvent struct {
	ID        string          `json:"id"`
	DriverID  string          `json:"driver_id"`
	Position  Location        `json:"position"`
	Alerts    []GeofenceAlert `json:"alerts"`
	CreatedAt time.Time       `json:"created_at"`
}
