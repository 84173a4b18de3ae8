package models

import "time"

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Position is the last fix reported by a driver's device.
// Speed is in meters per second as reported by the device.
type Position struct {
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Accuracy  *float64   `json:"accuracy,omitempty"`
	Speed     *float64   `json:"speed,omitempty"`
}

func (p Position) Location() Location {
	return Location{Lat: p.Lat, Lng: p.Lng}
}

// SameSpot reports whether both positions share coordinates.
func (p Position) SameSpot(other Position) bool {
	return p.Lat == other.Lat && p.Lng == other.Lng
}
