package dto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/pkg/validator"
)

type PositionUpdateRequest struct {
	Lat       *float64   `json:"lat"`
	Lng       *float64   `json:"lng"`
	Accuracy  *float64   `json:"accuracy"`
	Speed     *float64   `json:"speed"`
	Timestamp *time.Time `json:"timestamp"`
	SessionID string     `json:"session_id"`
}

func (r *PositionUpdateRequest) Validate(v *validator.Validator) {
	v.Check(r.Lat != nil, "lat", "must be provided")
	v.Check(r.Lng != nil, "lng", "must be provided")
	if r.Lat != nil {
		v.Check(validator.Between(*r.Lat, -90, 90), "lat", "must be between -90 and 90")
	}
	if r.Lng != nil {
		v.Check(validator.Between(*r.Lng, -180, 180), "lng", "must be between -180 and 180")
	}
	if r.Accuracy != nil {
		v.Check(*r.Accuracy >= 0, "accuracy", "must not be negative")
	}
	if r.Speed != nil {
		v.Check(*r.Speed >= 0, "speed", "must not be negative")
	}
}

func (r *PositionUpdateRequest) ToModel() models.Position {
	return models.Position{
		Lat:       *r.Lat,
		Lng:       *r.Lng,
		Timestamp: r.Timestamp,
		Accuracy:  r.Accuracy,
		Speed:     r.Speed,
	}
}

type HistoryResponse struct {
	Success   bool                   `json:"success"`
	Count     int                    `json:"count"`
	Positions []models.PositionPoint `json:"positions"`
}

type StatsResponse struct {
	Success bool                  `json:"success"`
	Stats   *models.TrackingStats `json:"stats"`
}

// ParseHistoryQuery reads start, end and session_id from the query string.
// Times are RFC 3339 or unix milliseconds.
func ParseHistoryQuery(driverID string, get func(string) string) (models.HistoryQuery, error) {
	q := models.HistoryQuery{
		DriverID:  driverID,
		SessionID: strings.TrimSpace(get("session_id")),
	}

	var err error
	if q.Start, err = parseTime(get("start")); err != nil {
		return q, fmt.Errorf("start: %w", err)
	}
	if q.End, err = parseTime(get("end")); err != nil {
		return q, fmt.Errorf("end: %w", err)
	}
	return q, nil
}

func parseTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, errors.New("must be RFC 3339 or unix milliseconds")
	}
	return &t, nil
}
