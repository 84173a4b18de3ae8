package geo

import "math"

const EarthRadiusKm = 6371.0

func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// DistanceKm calculates the haversine great-circle distance between two points in kilometers.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := DegreesToRadians(lat1)
	lat2Rad := DegreesToRadians(lat2)

	deltaLat := DegreesToRadians(lat2 - lat1)
	deltaLng := DegreesToRadians(lng2 - lng1)

	a := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Pow(math.Sin(deltaLng/2), 2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}
