package webhook

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/attendance"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/employee"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/message"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/overtime"
	"github.com/WellArtDev/absenin-project-sub000/internal/domain/tenant"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/geo"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/wagateway"
)

type fakeTenantRepo struct {
	tenants []tenant.Settings
}

func (f *fakeTenantRepo) GetByDeviceLine(_ context.Context, line, altLine string) (*tenant.Settings, error) {
	for _, st := range f.tenants {
		if st.DeviceLineID == line || st.DeviceLineID == altLine {
			copied := st
			return &copied, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (f *fakeTenantRepo) GetByID(_ context.Context, tenantID string) (*tenant.Settings, error) {
	for _, st := range f.tenants {
		if st.TenantID == tenantID {
			copied := st
			return &copied, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

type fakeEmployeeRepo struct {
	employees   []employee.Employee
	legacy      map[string]bool // tenant IDs opted in to suffix matching
	suffixCalls int
}

func (f *fakeEmployeeRepo) GetByPhone(_ context.Context, tenantID, normalizedPhone string) (*employee.Employee, error) {
	for _, e := range f.employees {
		if e.TenantID == tenantID && e.Phone == normalizedPhone && e.Active {
			copied := e
			return &copied, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) FindByPhone(_ context.Context, normalizedPhone string) (*employee.Employee, error) {
	for _, e := range f.employees {
		if e.Phone == normalizedPhone && e.Active {
			copied := e
			return &copied, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) FindByPhoneSuffix(_ context.Context, suffix string) (*employee.Employee, error) {
	f.suffixCalls++
	for _, e := range f.employees {
		if f.legacy[e.TenantID] && e.Active && strings.HasSuffix(e.Phone, suffix) {
			copied := e
			return &copied, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

type sentMessage struct {
	Endpoint wagateway.Endpoint
	Target   string
	Text     string
}

type capturingSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (c *capturingSender) Send(_ context.Context, ep wagateway.Endpoint, targetPhone, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMessage{Endpoint: ep, Target: targetPhone, Text: text})
	return nil
}

func (c *capturingSender) last(t *testing.T) sentMessage {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.sent)
	return c.sent[len(c.sent)-1]
}

func (c *capturingSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

type fakeAttendanceService struct {
	checkIn     func(emp employee.Employee, st tenant.Settings, loc *geo.Point, image string) (attendance.CheckInResult, error)
	checkOut    func(emp employee.Employee) (attendance.CheckOutResult, error)
	markAbsence func(emp employee.Employee, status attendance.Status) (*attendance.Record, error)
	today       func(emp employee.Employee) (*attendance.Record, error)
}

func (f *fakeAttendanceService) CheckIn(_ context.Context, emp employee.Employee, st tenant.Settings, loc *geo.Point, image string) (attendance.CheckInResult, error) {
	if f.checkIn == nil {
		return attendance.CheckInResult{Status: attendance.StatusHadir, Time: fixedNow()}, nil
	}
	return f.checkIn(emp, st, loc, image)
}

func (f *fakeAttendanceService) CheckOut(_ context.Context, emp employee.Employee, _ tenant.Settings, _ *geo.Point, _ string) (attendance.CheckOutResult, error) {
	if f.checkOut == nil {
		return attendance.CheckOutResult{Time: fixedNow(), WorkedMinutes: 540}, nil
	}
	return f.checkOut(emp)
}

func (f *fakeAttendanceService) MarkAbsence(_ context.Context, emp employee.Employee, _ tenant.Settings, status attendance.Status) (*attendance.Record, error) {
	if f.markAbsence == nil {
		return &attendance.Record{Status: status}, nil
	}
	return f.markAbsence(emp, status)
}

func (f *fakeAttendanceService) Today(_ context.Context, emp employee.Employee) (*attendance.Record, error) {
	if f.today == nil {
		return nil, attendance.ErrRecordNotFound
	}
	return f.today(emp)
}

type fakeOvertimeService struct {
	requestManual func(emp employee.Employee, reason string) (overtime.ManualRequestResult, error)
	finishManual  func(emp employee.Employee) (overtime.FinishResult, error)
}

func (f *fakeOvertimeService) CalculateAuto(context.Context, employee.Employee, tenant.Settings, string, time.Time) (overtime.AutoResult, error) {
	return overtime.AutoResult{}, nil
}

func (f *fakeOvertimeService) RequestManual(_ context.Context, emp employee.Employee, _ tenant.Settings, reason string) (overtime.ManualRequestResult, error) {
	if f.requestManual == nil {
		return overtime.ManualRequestResult{StartTime: fixedNow(), Reason: reason}, nil
	}
	return f.requestManual(emp, reason)
}

func (f *fakeOvertimeService) FinishManual(_ context.Context, emp employee.Employee, _ tenant.Settings) (overtime.FinishResult, error) {
	if f.finishManual == nil {
		return overtime.FinishResult{EndTime: fixedNow()}, nil
	}
	return f.finishManual(emp)
}

func (f *fakeOvertimeService) MonthlySummary(context.Context, employee.Employee, time.Month, int) (overtime.MonthlySummary, error) {
	return overtime.MonthlySummary{}, nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.January, 5, 8, 0, 0, 0, time.Local)
}

func tenantA() tenant.Settings {
	return tenant.Settings{
		TenantID:      "tenant-a",
		Name:          "PT Maju Jaya",
		DeviceLineID:  "628110000001",
		WorkStart:     "08:00",
		WorkEnd:       "17:00",
		GatewayAPIURL: "https://wa-a.example.com/send",
		GatewayToken:  "token-a",
	}
}

func tenantB() tenant.Settings {
	return tenant.Settings{
		TenantID:      "tenant-b",
		Name:          "CV Sentosa",
		DeviceLineID:  "628110000002",
		WorkStart:     "09:00",
		WorkEnd:       "18:00",
		GatewayAPIURL: "https://wa-b.example.com/send",
		GatewayToken:  "token-b",
	}
}

func newTestProcessor(tenants *fakeTenantRepo, employees *fakeEmployeeRepo, sender *capturingSender) *Processor {
	return NewProcessor(tenants, employees, &fakeAttendanceService{}, &fakeOvertimeService{}, sender).
		WithClock(fixedNow)
}

func TestProcessHappyPath(t *testing.T) {
	tenants := &fakeTenantRepo{tenants: []tenant.Settings{tenantA()}}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", TenantID: "tenant-a", Name: "Budi", Phone: "6281234567890", Active: true},
	}}
	sender := &capturingSender{}
	p := newTestProcessor(tenants, employees, sender)

	p.Process(context.Background(), message.InboundEvent{
		SenderPhone: "081234567890",
		Text:        "HADIR",
		DeviceLine:  "628110000001",
	})

	msg := sender.last(t)
	assert.Equal(t, "6281234567890", msg.Target)
	assert.Equal(t, "https://wa-a.example.com/send", msg.Endpoint.APIURL)
	assert.Equal(t, "token-a", msg.Endpoint.Token)
	assert.Contains(t, msg.Text, "check-in berhasil")
}

func TestProcessTenantScoping(t *testing.T) {
	t.Run("device line scopes matching to its own tenant", func(t *testing.T) {
		tenants := &fakeTenantRepo{tenants: []tenant.Settings{tenantA(), tenantB()}}
		employees := &fakeEmployeeRepo{
			employees: []employee.Employee{
				{ID: "emp-b", TenantID: "tenant-b", Name: "Siti", Phone: "6281234567890", Active: true},
			},
			legacy: map[string]bool{"tenant-b": true},
		}
		sender := &capturingSender{}
		p := newTestProcessor(tenants, employees, sender)

		// nomor milik tenant B masuk lewat line tenant A
		p.Process(context.Background(), message.InboundEvent{
			SenderPhone: "081234567890",
			Text:        "HADIR",
			DeviceLine:  "628110000001",
		})

		msg := sender.last(t)
		assert.Equal(t, "https://wa-a.example.com/send", msg.Endpoint.APIURL)
		assert.Contains(t, msg.Text, "belum terdaftar")
		assert.Zero(t, employees.suffixCalls)
	})

	t.Run("alternate-prefix device line still resolves", func(t *testing.T) {
		tenants := &fakeTenantRepo{tenants: []tenant.Settings{tenantA()}}
		employees := &fakeEmployeeRepo{employees: []employee.Employee{
			{ID: "emp-1", TenantID: "tenant-a", Name: "Budi", Phone: "6281234567890", Active: true},
		}}
		sender := &capturingSender{}
		p := newTestProcessor(tenants, employees, sender)

		p.Process(context.Background(), message.InboundEvent{
			SenderPhone: "081234567890",
			Text:        "HADIR",
			DeviceLine:  "08110000001",
		})

		assert.Contains(t, sender.last(t).Text, "check-in berhasil")
	})
}

func TestProcessGlobalMatching(t *testing.T) {
	t.Run("exact match without a device line", func(t *testing.T) {
		tenants := &fakeTenantRepo{tenants: []tenant.Settings{tenantA()}}
		employees := &fakeEmployeeRepo{employees: []employee.Employee{
			{ID: "emp-1", TenantID: "tenant-a", Name: "Budi", Phone: "6281234567890", Active: true},
		}}
		sender := &capturingSender{}
		p := newTestProcessor(tenants, employees, sender)

		p.Process(context.Background(), message.InboundEvent{
			SenderPhone: "+62 812-3456-7890",
			Text:        "HADIR",
		})

		assert.Contains(t, sender.last(t).Text, "check-in berhasil")
	})

	t.Run("suffix fallback for an opted-in tenant", func(t *testing.T) {
		tenants := &fakeTenantRepo{tenants: []tenant.Settings{tenantB()}}
		employees := &fakeEmployeeRepo{
			employees: []employee.Employee{
				// nomor lama tersimpan tanpa prefiks negara yang cocok persis
				{ID: "emp-b", TenantID: "tenant-b", Name: "Siti", Phone: "081234567890", Active: true},
			},
			legacy: map[string]bool{"tenant-b": true},
		}
		sender := &capturingSender{}
		p := newTestProcessor(tenants, employees, sender)

		p.Process(context.Background(), message.InboundEvent{
			SenderPhone: "6281234567890",
			Text:        "HADIR",
		})

		assert.Contains(t, sender.last(t).Text, "check-in berhasil")
		assert.Equal(t, 1, employees.suffixCalls)
	})

	t.Run("no match and no tenant sends nothing", func(t *testing.T) {
		tenants := &fakeTenantRepo{}
		employees := &fakeEmployeeRepo{}
		sender := &capturingSender{}
		p := newTestProcessor(tenants, employees, sender)

		p.Process(context.Background(), message.InboundEvent{
			SenderPhone: "6289999999999",
			Text:        "HADIR",
		})

		assert.Zero(t, sender.count())
	})

	t.Run("unusable sender phone is dropped", func(t *testing.T) {
		sender := &capturingSender{}
		p := newTestProcessor(&fakeTenantRepo{}, &fakeEmployeeRepo{}, sender)

		p.Process(context.Background(), message.InboundEvent{SenderPhone: "---", Text: "HADIR"})

		assert.Zero(t, sender.count())
	})
}

func TestProcessDispatch(t *testing.T) {
	employeeSet := func() *fakeEmployeeRepo {
		return &fakeEmployeeRepo{employees: []employee.Employee{
			{ID: "emp-1", TenantID: "tenant-a", Name: "Budi", Phone: "6281234567890", Active: true},
		}}
	}
	event := func(text string) message.InboundEvent {
		return message.InboundEvent{SenderPhone: "6281234567890", Text: text, DeviceLine: "628110000001"}
	}

	t.Run("guard failure maps to its reply", func(t *testing.T) {
		sender := &capturingSender{}
		attSvc := &fakeAttendanceService{
			checkIn: func(employee.Employee, tenant.Settings, *geo.Point, string) (attendance.CheckInResult, error) {
				return attendance.CheckInResult{}, &attendance.DuplicateCheckInError{At: fixedNow()}
			},
		}
		p := NewProcessor(&fakeTenantRepo{tenants: []tenant.Settings{tenantA()}}, employeeSet(), attSvc, &fakeOvertimeService{}, sender).
			WithClock(fixedNow)

		p.Process(context.Background(), event("HADIR"))

		msg := sender.last(t)
		assert.Contains(t, msg.Text, "sudah check-in")
		assert.Contains(t, msg.Text, "08:00")
	})

	t.Run("panic degrades to retry-later", func(t *testing.T) {
		sender := &capturingSender{}
		attSvc := &fakeAttendanceService{
			checkIn: func(employee.Employee, tenant.Settings, *geo.Point, string) (attendance.CheckInResult, error) {
				panic("boom")
			},
		}
		p := NewProcessor(&fakeTenantRepo{tenants: []tenant.Settings{tenantA()}}, employeeSet(), attSvc, &fakeOvertimeService{}, sender).
			WithClock(fixedNow)

		p.Process(context.Background(), event("HADIR"))

		assert.Contains(t, sender.last(t).Text, "coba lagi")
	})

	t.Run("unknown text gets the help reply", func(t *testing.T) {
		sender := &capturingSender{}
		p := newTestProcessor(&fakeTenantRepo{tenants: []tenant.Settings{tenantA()}}, employeeSet(), sender)

		p.Process(context.Background(), event("halo min"))

		msg := sender.last(t)
		assert.Contains(t, msg.Text, "Perintah yang tersedia")
		assert.Contains(t, msg.Text, "Budi")
	})

	t.Run("status without a record", func(t *testing.T) {
		sender := &capturingSender{}
		p := newTestProcessor(&fakeTenantRepo{tenants: []tenant.Settings{tenantA()}}, employeeSet(), sender)

		p.Process(context.Background(), event("STATUS"))

		assert.Contains(t, sender.last(t).Text, "belum ada catatan")
	})

	t.Run("overtime request carries the reason through", func(t *testing.T) {
		sender := &capturingSender{}
		otSvc := &fakeOvertimeService{
			requestManual: func(_ employee.Employee, reason string) (overtime.ManualRequestResult, error) {
				return overtime.ManualRequestResult{StartTime: fixedNow(), Reason: reason}, nil
			},
		}
		p := NewProcessor(&fakeTenantRepo{tenants: []tenant.Settings{tenantA()}}, employeeSet(), &fakeAttendanceService{}, otSvc, sender).
			WithClock(fixedNow)

		p.Process(context.Background(), event("LEMBUR Closing laporan bulanan"))

		assert.Contains(t, sender.last(t).Text, "Closing laporan bulanan")
	})
}
