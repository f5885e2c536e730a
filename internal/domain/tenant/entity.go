package tenant

import (
	"fmt"
	"time"

	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/geo"
)

// Settings is the per-tenant attendance policy. All employees of a tenant
// share one inbound messaging line (DeviceLineID) and one policy.
type Settings struct {
	TenantID             string
	Name                 string
	DeviceLineID         string // normalized, 62-prefixed
	WorkStart            string // "HH:MM"
	WorkEnd              string // "HH:MM"
	LateToleranceMinutes int
	RequireSelfie        bool
	RequireLocation      bool
	RadiusLockEnabled    bool
	OfficeLatitude       *float64
	OfficeLongitude      *float64
	AllowedRadiusMeters  int
	OvertimeEnabled      bool
	OvertimeMinMinutes   int
	OvertimeMaxHours     int
	LegacyPhoneMatch     bool
	GatewayAPIURL        string
	GatewayToken         string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Office returns the configured office coordinate, or nil when the tenant
// has no office location set.
func (s Settings) Office() *geo.Point {
	if s.OfficeLatitude == nil || s.OfficeLongitude == nil {
		return nil
	}
	return &geo.Point{Latitude: *s.OfficeLatitude, Longitude: *s.OfficeLongitude}
}

// WorkStartMinutes returns the configured work start as minutes of day.
func (s Settings) WorkStartMinutes() (int, error) {
	return minutesOfDay(s.WorkStart)
}

// WorkEndAt anchors the configured work end time-of-day to ref's calendar
// date, in ref's location.
func (s Settings) WorkEndAt(ref time.Time) (time.Time, error) {
	mins, err := minutesOfDay(s.WorkEnd)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), mins/60, mins%60, 0, 0, ref.Location()), nil
}

func minutesOfDay(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
