package geo

import "math"

// Jari-jari bumi rata-rata dalam meter.
const earthRadiusMeters = 6371000

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// CheckResult is the outcome of a geofence evaluation.
type CheckResult struct {
	Allowed        bool
	DistanceMeters int
}

// DistanceMeters menghitung jarak Haversine antara dua titik koordinat,
// dibulatkan ke meter terdekat.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) int {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int(math.Round(earthRadiusMeters * c))
}

// Check evaluates whether point falls within radiusMeters of center. A nil
// center or non-positive radius means geofencing is not configured and the
// point is always allowed with distance 0.
func Check(point Point, center *Point, radiusMeters int) CheckResult {
	if center == nil || radiusMeters <= 0 {
		return CheckResult{Allowed: true, DistanceMeters: 0}
	}

	d := DistanceMeters(point.Latitude, point.Longitude, center.Latitude, center.Longitude)
	return CheckResult{
		Allowed:        d <= radiusMeters,
		DistanceMeters: d,
	}
}
