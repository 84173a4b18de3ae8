package geo

import (
	"math"
	"testing"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point", 14.6928, -17.4467, 14.6928, -17.4467, 0, 1e-9},
		{"one degree of latitude", 0, 0, 1, 0, 111.195, 0.01},
		{"plateau to almadies", 14.6928, -17.4467, 14.7450, -17.5150, 9.35, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Fatalf("DistanceKm = %.4f, want %.4f ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := DistanceKm(14.70, -17.45, 14.78, -17.30)
	b := DistanceKm(14.78, -17.30, 14.70, -17.45)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestTableLookupFirstMatchWins(t *testing.T) {
	table := Table{
		{Name: "fass", Location: models.Location{Lat: 1, Lng: 1}},
		{Name: "fass delorme", Location: models.Location{Lat: 2, Lng: 2}},
	}

	loc, ok := table.Lookup("Rue 10, FASS Delorme")
	if !ok {
		t.Fatal("expected a match")
	}
	if loc.Lat != 1 {
		t.Fatalf("expected first entry to win, got %+v", loc)
	}
}

func TestResolverFallsBackToDefault(t *testing.T) {
	r := NewResolver(DakarZones, DefaultCenter)

	if got := r.FallbackCoordinates("somewhere unknown"); got != DefaultCenter {
		t.Fatalf("unknown address: got %+v, want default %+v", got, DefaultCenter)
	}

	got := r.FallbackCoordinates("Immeuble 4, Medina")
	want := models.Location{Lat: 14.6738, Lng: -17.4387}
	if got != want {
		t.Fatalf("medina: got %+v, want %+v", got, want)
	}
}
