package reply

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/attendance"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/employee"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/overtime"
)

func atTime(hour, min int) time.Time {
	return time.Date(2026, time.January, 5, hour, min, 0, 0, time.Local)
}

func TestCheckInSuccess(t *testing.T) {
	t.Parallel()

	t.Run("on time", func(t *testing.T) {
		msg := CheckInSuccess("Budi", attendance.CheckInResult{
			Status: attendance.StatusHadir,
			Time:   atTime(8, 5),
		})
		assert.Contains(t, msg, "check-in berhasil")
		assert.Contains(t, msg, "08:05")
		assert.Contains(t, msg, "HADIR")
		assert.NotContains(t, msg, "Lokasi")
	})

	t.Run("late with location and distance", func(t *testing.T) {
		loc := "Jl. Jend. Sudirman, Jakarta"
		dist := 42
		msg := CheckInSuccess("Budi", attendance.CheckInResult{
			Status:         attendance.StatusTerlambat,
			Time:           atTime(8, 40),
			LocationName:   &loc,
			DistanceMeters: &dist,
		})
		assert.Contains(t, msg, "TERLAMBAT")
		assert.Contains(t, msg, loc)
		assert.Contains(t, msg, "42 m")
	})
}

func TestCheckOutSuccess(t *testing.T) {
	t.Parallel()

	t.Run("without overtime", func(t *testing.T) {
		msg := CheckOutSuccess("Budi", attendance.CheckOutResult{
			Time:          atTime(17, 0),
			WorkedMinutes: 540,
		})
		assert.Contains(t, msg, "17:00")
		assert.Contains(t, msg, "9 jam")
		assert.NotContains(t, msg, "Lembur")
	})

	t.Run("with counted overtime", func(t *testing.T) {
		msg := CheckOutSuccess("Budi", attendance.CheckOutResult{
			Time:                 atTime(18, 10),
			WorkedMinutes:        610,
			OvertimeCounted:      true,
			OvertimeMinutes:      70,
			TotalOvertimeMinutes: 130,
		})
		assert.Contains(t, msg, "Lembur otomatis: 1 jam 10 menit")
		assert.Contains(t, msg, "total hari ini 2 jam 10 menit")
	})
}

func TestTodayStatus(t *testing.T) {
	t.Parallel()

	t.Run("no record", func(t *testing.T) {
		msg := TodayStatus("Budi", nil)
		assert.Contains(t, msg, "belum ada catatan")
	})

	t.Run("full day", func(t *testing.T) {
		in := atTime(8, 0)
		out := atTime(18, 10)
		msg := TodayStatus("Budi", &attendance.Record{
			Status:          attendance.StatusHadir,
			CheckIn:         &in,
			CheckOut:        &out,
			OvertimeMinutes: 70,
		})
		assert.Contains(t, msg, "08:00")
		assert.Contains(t, msg, "18:10")
		assert.Contains(t, msg, "1 jam 10 menit")
	})
}

func TestFromError(t *testing.T) {
	t.Parallel()

	emp := employee.Employee{Name: "Budi"}

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"duplicate check-in with time", &attendance.DuplicateCheckInError{At: atTime(8, 0)}, "08:00"},
		{"duplicate check-out with time", &attendance.DuplicateCheckOutError{At: atTime(17, 0)}, "17:00"},
		{"out of range with distance", &attendance.OutOfRangeError{DistanceMeters: 250, MaxRadiusMeters: 100}, "250 m"},
		{"selfie required", attendance.ErrSelfieRequired, "selfie"},
		{"location required", attendance.ErrLocationRequired, "lokasi"},
		{"not checked in", attendance.ErrNotCheckedIn, "belum check-in"},
		{"overtime needs check-in", overtime.ErrCheckInRequired, "check-in dulu"},
		{"overtime duplicate", overtime.ErrDuplicateRequest, "sudah tercatat"},
		{"no active overtime", overtime.ErrNoActiveOvertime, "tidak ada sesi"},
		{"unknown error falls back to retry", errors.New("db down"), "coba lagi"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, FromError(emp, tc.err), tc.want)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "45 menit", formatDuration(45))
	assert.Equal(t, "2 jam", formatDuration(120))
	assert.Equal(t, "1 jam 10 menit", formatDuration(70))
	assert.Equal(t, "0 menit", formatDuration(0))
}

func TestOvertimeSummary(t *testing.T) {
	t.Parallel()

	msg := OvertimeSummary("Budi", overtime.MonthlySummary{
		Month: time.January, Year: 2026,
		AutoCount: 3, AutoMinutes: 180,
		ManualCount: 1, ManualMinutes: 60,
		PendingCount: 1, TotalMinutes: 240,
	})
	assert.Contains(t, msg, "1/2026")
	assert.Contains(t, msg, "Otomatis: 3x (3 jam)")
	assert.Contains(t, msg, "Manual: 1x (1 jam)")
	assert.Contains(t, msg, "Total: 4 jam")
}
