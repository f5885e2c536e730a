package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	t.Parallel()

	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0, DistanceMeters(-6.2000, 106.8160, -6.2000, 106.8160))
	})

	t.Run("symmetric", func(t *testing.T) {
		d1 := DistanceMeters(-6.2000, 106.8160, -6.1751, 106.8650)
		d2 := DistanceMeters(-6.1751, 106.8650, -6.2000, 106.8160)
		assert.Equal(t, d1, d2)
		assert.Greater(t, d1, 0)
	})

	t.Run("known distance within tolerance", func(t *testing.T) {
		// Monas ke Bundaran HI, kurang lebih 2.4 km.
		d := DistanceMeters(-6.1754, 106.8272, -6.1950, 106.8230)
		assert.InDelta(t, 2200, d, 300)
	})
}

func TestCheck(t *testing.T) {
	t.Parallel()

	office := &Point{Latitude: -6.2000, Longitude: 106.8160}

	t.Run("nil center always allowed", func(t *testing.T) {
		res := Check(Point{Latitude: -6.3, Longitude: 107.0}, nil, 100)
		assert.True(t, res.Allowed)
		assert.Equal(t, 0, res.DistanceMeters)
	})

	t.Run("non-positive radius always allowed", func(t *testing.T) {
		res := Check(Point{Latitude: -6.3, Longitude: 107.0}, office, 0)
		assert.True(t, res.Allowed)
		assert.Equal(t, 0, res.DistanceMeters)
	})

	t.Run("inside radius", func(t *testing.T) {
		res := Check(Point{Latitude: -6.2000, Longitude: 106.8160}, office, 100)
		assert.True(t, res.Allowed)
		assert.Equal(t, 0, res.DistanceMeters)
	})

	t.Run("outside radius", func(t *testing.T) {
		res := Check(Point{Latitude: -6.2100, Longitude: 106.8160}, office, 100)
		assert.False(t, res.Allowed)
		assert.Greater(t, res.DistanceMeters, 100)
	})

	t.Run("exactly on the boundary allowed", func(t *testing.T) {
		point := Point{Latitude: -6.2100, Longitude: 106.8160}
		d := DistanceMeters(point.Latitude, point.Longitude, office.Latitude, office.Longitude)
		res := Check(point, office, d)
		assert.True(t, res.Allowed)
		assert.Equal(t, d, res.DistanceMeters)
	})
}
