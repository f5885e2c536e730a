package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyKeywords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want Intent
	}{
		{"HADIR", IntentCheckIn},
		{"hadir", IntentCheckIn},
		{"  Masuk  ", IntentCheckIn},
		{"CHECKIN", IntentCheckIn},
		{"in", IntentCheckIn},
		{"ABSEN", IntentCheckIn},

		{"PULANG", IntentCheckOut},
		{"keluar", IntentCheckOut},
		{"Checkout", IntentCheckOut},
		{"OUT", IntentCheckOut},

		{"STATUS", IntentStatus},
		{"cek", IntentStatus},
		{"INFO", IntentStatus},

		{"IZIN", IntentLeave},
		{"sakit", IntentSick},

		{"SELESAI LEMBUR", IntentOvertimeFinish},
		{"stop lembur", IntentOvertimeFinish},
		{"End Lembur", IntentOvertimeFinish},
		{"DONE LEMBUR", IntentOvertimeFinish},

		{"REKAP", IntentOvertimeSummary},
		{"rekap lembur", IntentOvertimeSummary},

		{"halo", IntentHelp},
		{"", IntentHelp},
		{"HADIR BESOK", IntentHelp},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.text).Intent)
		})
	}
}

func TestClassifyOvertimeReason(t *testing.T) {
	t.Parallel()

	t.Run("reason extracted with original casing", func(t *testing.T) {
		cmd := Classify("lembur Closing laporan bulanan")
		assert.Equal(t, IntentOvertimeRequest, cmd.Intent)
		assert.Equal(t, "Closing laporan bulanan", cmd.Reason)
	})

	t.Run("bare keyword falls back to default reason", func(t *testing.T) {
		cmd := Classify("LEMBUR")
		assert.Equal(t, IntentOvertimeRequest, cmd.Intent)
		assert.Equal(t, DefaultOvertimeReason, cmd.Reason)
	})

	t.Run("whitespace only after keyword", func(t *testing.T) {
		cmd := Classify("  lembur   ")
		assert.Equal(t, IntentOvertimeRequest, cmd.Intent)
		assert.Equal(t, DefaultOvertimeReason, cmd.Reason)
	})

	t.Run("finish keywords never parse as request", func(t *testing.T) {
		cmd := Classify("selesai lembur")
		assert.Equal(t, IntentOvertimeFinish, cmd.Intent)
		assert.Empty(t, cmd.Reason)
	})
}
