package message

import "strings"

// Intent enumerates the commands an employee can send.
type Intent string

const (
	IntentCheckIn         Intent = "check_in"
	IntentCheckOut        Intent = "check_out"
	IntentStatus          Intent = "status"
	IntentLeave           Intent = "leave"
	IntentSick            Intent = "sick"
	IntentOvertimeRequest Intent = "overtime_request"
	IntentOvertimeFinish  Intent = "overtime_finish"
	IntentOvertimeSummary Intent = "overtime_summary"
	IntentHelp            Intent = "help"
)

// Command is a classified message: the intent plus any extracted payload.
type Command struct {
	Intent Intent
	Reason string // overtime request reason
}

// DefaultOvertimeReason is used when a LEMBUR command carries no text after
// the keyword.
const DefaultOvertimeReason = "Lembur"

// One source-of-truth keyword table. Matching is exact after trim+uppercase,
// except the LEMBUR prefix which carries the remainder as the reason.
var keywordIntents = map[string]Intent{
	"HADIR":   IntentCheckIn,
	"MASUK":   IntentCheckIn,
	"CHECKIN": IntentCheckIn,
	"IN":      IntentCheckIn,
	"ABSEN":   IntentCheckIn,

	"PULANG":   IntentCheckOut,
	"KELUAR":   IntentCheckOut,
	"CHECKOUT": IntentCheckOut,
	"OUT":      IntentCheckOut,

	"STATUS": IntentStatus,
	"CEK":    IntentStatus,
	"INFO":   IntentStatus,

	"IZIN":  IntentLeave,
	"SAKIT": IntentSick,

	"SELESAI LEMBUR": IntentOvertimeFinish,
	"STOP LEMBUR":    IntentOvertimeFinish,
	"END LEMBUR":     IntentOvertimeFinish,
	"DONE LEMBUR":    IntentOvertimeFinish,

	"REKAP":        IntentOvertimeSummary,
	"REKAP LEMBUR": IntentOvertimeSummary,
}

// Classify maps free text to a Command. Unknown text, greetings included,
// falls through to IntentHelp.
func Classify(text string) Command {
	normalized := strings.ToUpper(strings.TrimSpace(text))

	if intent, ok := keywordIntents[normalized]; ok {
		return Command{Intent: intent}
	}

	if strings.HasPrefix(normalized, "LEMBUR") {
		// keep the sender's original casing for the reason
		reason := strings.TrimSpace(trimKeywordPrefix(text, "LEMBUR"))
		if reason == "" {
			reason = DefaultOvertimeReason
		}
		return Command{Intent: IntentOvertimeRequest, Reason: reason}
	}

	return Command{Intent: IntentHelp}
}

func trimKeywordPrefix(text, keyword string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < len(keyword) {
		return ""
	}
	return trimmed[len(keyword):]
}
