// Package reply composes the outbound chat messages from transition
// results. Pure formatting, no state.
package reply

import (
	"errors"
	"fmt"
	"strings"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/attendance"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/employee"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/overtime"
)

const timeLayout = "15:04"

func CheckInSuccess(name string, res attendance.CheckInResult) string {
	var b strings.Builder
	if res.Status == attendance.StatusTerlambat {
		fmt.Fprintf(&b, "⚠️ %s, kamu tercatat TERLAMBAT hari ini.\n", name)
	} else {
		fmt.Fprintf(&b, "✅ %s, check-in berhasil!\n", name)
	}
	fmt.Fprintf(&b, "Jam masuk: %s\nStatus: %s", res.Time.Format(timeLayout), res.Status)
	if res.LocationName != nil {
		fmt.Fprintf(&b, "\nLokasi: %s", *res.LocationName)
	}
	if res.DistanceMeters != nil {
		fmt.Fprintf(&b, "\nJarak dari kantor: %d m", *res.DistanceMeters)
	}
	return b.String()
}

func CheckOutSuccess(name string, res attendance.CheckOutResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s, check-out berhasil!\nJam pulang: %s\nDurasi kerja: %s",
		name, res.Time.Format(timeLayout), formatDuration(res.WorkedMinutes))
	if res.OvertimeCounted {
		fmt.Fprintf(&b, "\nLembur otomatis: %s (total hari ini %s)",
			formatDuration(res.OvertimeMinutes), formatDuration(res.TotalOvertimeMinutes))
	}
	return b.String()
}

func AbsenceMarked(name string, status attendance.Status) string {
	label := "izin"
	if status == attendance.StatusSakit {
		label = "sakit"
	}
	return fmt.Sprintf("✅ %s, kamu tercatat %s hari ini. Semoga urusanmu lancar!", name, label)
}

func TodayStatus(name string, rec *attendance.Record) string {
	if rec == nil {
		return fmt.Sprintf("ℹ️ %s, belum ada catatan absensi hari ini.", name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Absensi %s hari ini\nStatus: %s", name, rec.Status)
	if rec.CheckIn != nil {
		fmt.Fprintf(&b, "\nJam masuk: %s", rec.CheckIn.Format(timeLayout))
	}
	if rec.CheckOut != nil {
		fmt.Fprintf(&b, "\nJam pulang: %s", rec.CheckOut.Format(timeLayout))
	}
	if rec.OvertimeMinutes > 0 {
		fmt.Fprintf(&b, "\nLembur: %s", formatDuration(rec.OvertimeMinutes))
	}
	return b.String()
}

func OvertimeRequested(name string, res overtime.ManualRequestResult) string {
	return fmt.Sprintf("✅ %s, lembur dicatat mulai %s.\nAlasan: %s\nKirim \"SELESAI LEMBUR\" saat selesai.",
		name, res.StartTime.Format(timeLayout), res.Reason)
}

func OvertimeFinished(name string, res overtime.FinishResult) string {
	return fmt.Sprintf("✅ %s, lembur selesai pukul %s.\nDurasi lembur: %s\nTotal lembur hari ini: %s",
		name, res.EndTime.Format(timeLayout), formatDuration(res.Minutes), formatDuration(res.TotalMinutes))
}

func OvertimeSummary(name string, sum overtime.MonthlySummary) string {
	return fmt.Sprintf("📊 Rekap lembur %s %d/%d\nOtomatis: %dx (%s)\nManual: %dx (%s)\nBelum selesai: %d\nTotal: %s",
		name, int(sum.Month), sum.Year,
		sum.AutoCount, formatDuration(sum.AutoMinutes),
		sum.ManualCount, formatDuration(sum.ManualMinutes),
		sum.PendingCount, formatDuration(sum.TotalMinutes))
}

func Help(name string) string {
	return fmt.Sprintf(`Halo %s! 👋 Perintah yang tersedia:
- HADIR / MASUK : check-in
- PULANG : check-out
- IZIN / SAKIT : lapor izin atau sakit
- STATUS : absensi hari ini
- LEMBUR <alasan> : mulai lembur manual
- SELESAI LEMBUR : tutup lembur manual
- REKAP : rekap lembur bulan ini`, name)
}

func UnknownEmployee() string {
	return "❌ Nomor kamu belum terdaftar. Hubungi admin perusahaanmu untuk didaftarkan."
}

// RetryLater is sent when processing failed for an internal reason; the
// sender can safely repeat the command.
func RetryLater() string {
	return "⚠️ Terjadi gangguan saat memproses pesanmu. Silakan coba lagi beberapa saat lagi."
}

// FromError maps a guard failure to the reply text. Unknown errors map to
// the generic retry-later message.
func FromError(emp employee.Employee, err error) string {
	var dupIn *attendance.DuplicateCheckInError
	var dupOut *attendance.DuplicateCheckOutError
	var outOfRange *attendance.OutOfRangeError

	switch {
	case errors.As(err, &dupIn):
		return fmt.Sprintf("ℹ️ %s, kamu sudah check-in hari ini pukul %s.", emp.Name, dupIn.At.Format(timeLayout))
	case errors.As(err, &dupOut):
		return fmt.Sprintf("ℹ️ %s, kamu sudah check-out hari ini pukul %s.", emp.Name, dupOut.At.Format(timeLayout))
	case errors.As(err, &outOfRange):
		return fmt.Sprintf("❌ Kamu berada di luar radius kantor.\nJarak: %d m (maks %d m). Mendekatlah ke kantor lalu coba lagi.",
			outOfRange.DistanceMeters, outOfRange.MaxRadiusMeters)
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		return fmt.Sprintf("ℹ️ %s, kamu sudah check-in hari ini.", emp.Name)
	case errors.Is(err, attendance.ErrSelfieRequired):
		return "📸 Perusahaanmu mewajibkan selfie. Kirim ulang perintahmu beserta foto selfie."
	case errors.Is(err, attendance.ErrLocationRequired):
		return "📍 Perusahaanmu mewajibkan share lokasi. Kirim ulang perintahmu beserta lokasi."
	case errors.Is(err, attendance.ErrNotCheckedIn):
		return fmt.Sprintf("❌ %s, kamu belum check-in hari ini.", emp.Name)
	case errors.Is(err, overtime.ErrCheckInRequired):
		return fmt.Sprintf("❌ %s, check-in dulu sebelum mengajukan lembur.", emp.Name)
	case errors.Is(err, overtime.ErrDuplicateRequest):
		return fmt.Sprintf("ℹ️ %s, lembur hari ini sudah tercatat selesai.", emp.Name)
	case errors.Is(err, overtime.ErrNoActiveOvertime):
		return fmt.Sprintf("❌ %s, tidak ada sesi lembur yang sedang berjalan.", emp.Name)
	default:
		return RetryLater()
	}
}

func formatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d menit", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%d jam", minutes/60)
	}
	return fmt.Sprintf("%d jam %d menit", minutes/60, minutes%60)
}
