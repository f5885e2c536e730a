package employee

import "time"

type Employee struct {
	ID        string
	TenantID  string
	Name      string
	Phone     string // normalized, 62-prefixed, unique within tenant
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
