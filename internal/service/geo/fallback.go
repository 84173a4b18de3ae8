package geo

import (
	"strings"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
)

// DefaultCenter is returned when no zone matches an address (Dakar Plateau).
var DefaultCenter = models.Location{Lat: 14.6928, Lng: -17.4467}

type Zone struct {
	Name     string
	Location models.Location
}

// Table is an ordered address lookup. The first zone whose lowercase name is
// contained in the address wins.
type Table []Zone

// Lookup returns the coordinates of the first matching zone and whether one matched.
func (t Table) Lookup(address string) (models.Location, bool) {
	addr := strings.ToLower(address)
	for _, z := range t {
		if strings.Contains(addr, z.Name) {
			return z.Location, true
		}
	}
	return DefaultCenter, false
}

// Resolver turns an address into coordinates, falling back to a default center.
type Resolver struct {
	table    Table
	fallback models.Location
}

func NewResolver(table Table, fallback models.Location) *Resolver {
	return &Resolver{table: table, fallback: fallback}
}

// FallbackCoordinates never fails: unknown addresses resolve to the fallback center.
func (r *Resolver) FallbackCoordinates(address string) models.Location {
	if loc, ok := r.table.Lookup(address); ok {
		return loc
	}
	return r.fallback
}
