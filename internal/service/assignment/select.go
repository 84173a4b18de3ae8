package assignment

import (
	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/Temutjin2k/dispatch-engine/internal/service/geo"
	"github.com/shopspring/decimal"
)

type Candidate struct {
	Driver     models.Driver
	DistanceKm float64
}

// Eligible reports whether the driver has a GPS fix, no booking link, and
// at least minBalance available.
func Eligible(d *models.Driver, minBalance decimal.Decimal) bool {
	if d.Position == nil || d.Position.Lat == 0 {
		return false
	}
	if d.HasBooking() {
		return false
	}
	return !d.AvailableBalance().LessThan(minBalance)
}

// SelectNearest returns the eligible driver closest to origin within radiusKm.
// Equal distances resolve to the driver seen first in drivers.
func SelectNearest(origin models.Location, drivers []models.Driver, radiusKm float64, minBalance decimal.Decimal) (Candidate, bool) {
	var (
		best  Candidate
		found bool
	)
	for i := range drivers {
		d := &drivers[i]
		if !Eligible(d, minBalance) {
			continue
		}
		dist := geo.DistanceKm(origin.Lat, origin.Lng, d.Position.Lat, d.Position.Lng)
		if dist > radiusKm {
			continue
		}
		if !found || dist < best.DistanceKm {
			best = Candidate{Driver: *d, DistanceKm: dist}
			found = true
		}
	}
	return best, found
}
