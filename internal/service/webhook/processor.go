package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/attendance"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/employee"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/message"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/overtime"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/tenant"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/phone"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/wagateway"
	"github.com/WellArtDev/absenin-project-sub000/internal/service/reply"
)

// Processor runs the full inbound flow: tenant resolution, employee
// matching, command classification, state machine dispatch and the outbound
// reply. One Process call handles one webhook delivery.
type Processor struct {
	tenants           tenant.SettingsRepository
	employees         employee.EmployeeRepository
	attendanceService attendance.AttendanceService
	overtimeService   overtime.OvertimeService
	sender            wagateway.Sender
	now               func() time.Time
}

func NewProcessor(
	tenants tenant.SettingsRepository,
	employees employee.EmployeeRepository,
	attendanceService attendance.AttendanceService,
	overtimeService overtime.OvertimeService,
	sender wagateway.Sender,
) *Processor {
	return &Processor{
		tenants:           tenants,
		employees:         employees,
		attendanceService: attendanceService,
		overtimeService:   overtimeService,
		sender:            sender,
		now:               time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// Process handles one inbound event end to end. It never returns an error:
// every outcome, internal failures included, ends in a reply (or a log line
// when no tenant gateway is known) so the provider is never pushed into
// retries.
func (p *Processor) Process(ctx context.Context, ev message.InboundEvent) {
	normalized := phone.Normalize(ev.SenderPhone)
	if normalized == "" {
		slog.Warn("inbound event without usable sender phone, dropped")
		return
	}

	st := p.resolveTenant(ctx, ev.DeviceLine)

	emp, err := p.matchEmployee(ctx, st, normalized)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.Info("inbound event from unknown phone", "phone", normalized)
			if st != nil {
				p.send(ctx, st, normalized, reply.UnknownEmployee())
			}
			return
		}
		slog.Error("employee lookup failed", "phone", normalized, "error", err)
		if st != nil {
			p.send(ctx, st, normalized, reply.RetryLater())
		}
		return
	}

	if st == nil {
		st, err = p.tenants.GetByID(ctx, emp.TenantID)
		if err != nil {
			slog.Error("tenant settings lookup failed", "tenant_id", emp.TenantID, "error", err)
			return
		}
	}

	text := p.dispatch(ctx, *emp, *st, ev)
	p.send(ctx, st, emp.Phone, text)
}

// dispatch classifies the message and runs the state machine. Panics and
// unexpected errors degrade to the generic retry-later reply.
func (p *Processor) dispatch(ctx context.Context, emp employee.Employee, st tenant.Settings, ev message.InboundEvent) (text string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while processing inbound event", "employee_id", emp.ID, "panic", fmt.Sprint(r))
			text = reply.RetryLater()
		}
	}()

	cmd := message.Classify(ev.Text)

	switch cmd.Intent {
	case message.IntentCheckIn:
		res, err := p.attendanceService.CheckIn(ctx, emp, st, ev.Location, ev.Image)
		if err != nil {
			return p.guardReply(emp, err, "check-in failed")
		}
		return reply.CheckInSuccess(emp.Name, res)

	case message.IntentCheckOut:
		res, err := p.attendanceService.CheckOut(ctx, emp, st, ev.Location, ev.Image)
		if err != nil {
			return p.guardReply(emp, err, "check-out failed")
		}
		return reply.CheckOutSuccess(emp.Name, res)

	case message.IntentLeave:
		_, err := p.attendanceService.MarkAbsence(ctx, emp, st, attendance.StatusIzin)
		if err != nil {
			return p.guardReply(emp, err, "leave mark failed")
		}
		return reply.AbsenceMarked(emp.Name, attendance.StatusIzin)

	case message.IntentSick:
		_, err := p.attendanceService.MarkAbsence(ctx, emp, st, attendance.StatusSakit)
		if err != nil {
			return p.guardReply(emp, err, "sick mark failed")
		}
		return reply.AbsenceMarked(emp.Name, attendance.StatusSakit)

	case message.IntentStatus:
		rec, err := p.attendanceService.Today(ctx, emp)
		if err != nil && !errors.Is(err, attendance.ErrRecordNotFound) {
			return p.guardReply(emp, err, "status lookup failed")
		}
		return reply.TodayStatus(emp.Name, rec)

	case message.IntentOvertimeRequest:
		res, err := p.overtimeService.RequestManual(ctx, emp, st, cmd.Reason)
		if err != nil {
			return p.guardReply(emp, err, "overtime request failed")
		}
		return reply.OvertimeRequested(emp.Name, res)

	case message.IntentOvertimeFinish:
		res, err := p.overtimeService.FinishManual(ctx, emp, st)
		if err != nil {
			return p.guardReply(emp, err, "overtime finish failed")
		}
		return reply.OvertimeFinished(emp.Name, res)

	case message.IntentOvertimeSummary:
		now := p.now()
		sum, err := p.overtimeService.MonthlySummary(ctx, emp, now.Month(), now.Year())
		if err != nil {
			return p.guardReply(emp, err, "overtime summary failed")
		}
		return reply.OvertimeSummary(emp.Name, sum)

	default:
		return reply.Help(emp.Name)
	}
}

// resolveTenant maps the inbound device line to tenant settings, trying both
// prefix forms. A nil result means no tenant could be resolved and scoped
// matching is unavailable.
func (p *Processor) resolveTenant(ctx context.Context, deviceLine string) *tenant.Settings {
	if deviceLine == "" {
		return nil
	}
	line := phone.Normalize(deviceLine)
	if line == "" {
		return nil
	}

	st, err := p.tenants.GetByDeviceLine(ctx, line, phone.Alternate(line))
	if err != nil {
		if !errors.Is(err, tenant.ErrTenantNotFound) {
			slog.Error("tenant resolution failed", "device_line", line, "error", err)
		}
		return nil
	}
	return st
}

// matchEmployee finds the employee behind the sender phone. With a resolved
// tenant the search is strictly scoped to that tenant; without one, an exact
// global match is tried first, then the legacy suffix fallback.
func (p *Processor) matchEmployee(ctx context.Context, st *tenant.Settings, normalized string) (*employee.Employee, error) {
	if st != nil {
		return p.employees.GetByPhone(ctx, st.TenantID, normalized)
	}

	emp, err := p.employees.FindByPhone(ctx, normalized)
	if err == nil {
		return emp, nil
	}
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return nil, err
	}

	for _, n := range []int{10, 9} {
		emp, err := p.employees.FindByPhoneSuffix(ctx, phone.Suffix(normalized, n))
		if err == nil {
			return emp, nil
		}
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, err
		}
	}

	return nil, employee.ErrEmployeeNotFound
}

func (p *Processor) guardReply(emp employee.Employee, err error, logMsg string) string {
	text := reply.FromError(emp, err)
	if text == reply.RetryLater() {
		slog.Error(logMsg, "employee_id", emp.ID, "error", err)
	} else {
		slog.Info(logMsg, "employee_id", emp.ID, "reason", err)
	}
	return text
}

func (p *Processor) send(ctx context.Context, st *tenant.Settings, targetPhone, text string) {
	ep := wagateway.Endpoint{APIURL: st.GatewayAPIURL, Token: st.GatewayToken}
	if err := p.sender.Send(ctx, ep, targetPhone, text); err != nil {
		slog.Error("failed to send reply", "tenant_id", st.TenantID, "error", err)
	}
}
