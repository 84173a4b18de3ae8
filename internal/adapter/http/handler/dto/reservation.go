package dto

import (
	"encoding/json"
	"strings"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/pkg/validator"
)

type LocationDTO struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (l *LocationDTO) validate(v *validator.Validator, key string) {
	if l == nil {
		return
	}
	v.Check(l.Lat != nil, key+".lat", "must be provided")
	v.Check(l.Lng != nil, key+".lng", "must be provided")
	if l.Lat != nil {
		v.Check(validator.Between(*l.Lat, -90, 90), key+".lat", "must be between -90 and 90")
	}
	if l.Lng != nil {
		v.Check(validator.Between(*l.Lng, -180, 180), key+".lng", "must be between -180 and 180")
	}
}

func (l *LocationDTO) toModel() *models.Location {
	if l == nil || l.Lat == nil || l.Lng == nil {
		return nil
	}
	return &models.Location{Lat: *l.Lat, Lng: *l.Lng}
}

type CreateReservationRequest struct {
	OriginAddress      string       `json:"origin_address"`
	Origin             *LocationDTO `json:"origin"`
	DestinationAddress string       `json:"destination_address"`
	Destination        *LocationDTO `json:"destination"`
	ClientName         string       `json:"client_name"`
	ClientPhone        string       `json:"client_phone"`
	ClientEmail        string       `json:"client_email"`
	// EstimatedPrice accepts a JSON number or a formatted string such as "4 500 FCFA".
	EstimatedPrice json.RawMessage `json:"estimated_price" swaggertype:"string"`
}

func (r *CreateReservationRequest) Validate(v *validator.Validator) {
	v.Check(strings.TrimSpace(r.OriginAddress) != "", "origin_address", "must be provided")
	v.Check(strings.TrimSpace(r.DestinationAddress) != "", "destination_address", "must be provided")
	v.Check(strings.TrimSpace(r.ClientName) != "", "client_name", "must be provided")
	v.Check(len(r.ClientName) <= 200, "client_name", "must be at most 200 characters")
	v.Check(strings.TrimSpace(r.ClientPhone) != "", "client_phone", "must be provided")
	r.Origin.validate(v, "origin")
	r.Destination.validate(v, "destination")
}

func (r *CreateReservationRequest) ToModel() models.NewReservation {
	return models.NewReservation{
		OriginAddress:      strings.TrimSpace(r.OriginAddress),
		Origin:             r.Origin.toModel(),
		DestinationAddress: strings.TrimSpace(r.DestinationAddress),
		Destination:        r.Destination.toModel(),
		ClientName:         strings.TrimSpace(r.ClientName),
		ClientPhone:        strings.TrimSpace(r.ClientPhone),
		ClientEmail:        strings.TrimSpace(r.ClientEmail),
		EstimatedPrice:     rawText(r.EstimatedPrice),
	}
}

// rawText returns a JSON string's content or the literal text of any other value.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

func (r *AssignDriverRequest) Validate(v *validator.Validator) {
	v.Check(strings.TrimSpace(r.DriverID) != "", "driver_id", "must be provided")
}

type CompleteRideRequest struct {
	DriverID string `json:"driver_id"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
