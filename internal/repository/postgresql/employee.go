package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/employee"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, tenant_id, name, phone, active, created_at, updated_at`

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(&e.ID, &e.TenantID, &e.Name, &e.Phone, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByPhone implements employee.EmployeeRepository.
func (r *employeeRepository) GetByPhone(ctx context.Context, tenantID, normalizedPhone string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE tenant_id = $1
		  AND phone = $2
		  AND active = true
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, tenantID, normalizedPhone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee by phone: %w", err)
	}
	return e, nil
}

// FindByPhone implements employee.EmployeeRepository.
func (r *employeeRepository) FindByPhone(ctx context.Context, normalizedPhone string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE phone = $1
		  AND active = true
		LIMIT 1
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, normalizedPhone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee by phone: %w", err)
	}
	return e, nil
}

// FindByPhoneSuffix implements employee.EmployeeRepository. Only employees
// of tenants that opted in to legacy suffix matching are considered.
func (r *employeeRepository) FindByPhoneSuffix(ctx context.Context, suffix string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.tenant_id, e.name, e.phone, e.active, e.created_at, e.updated_at
		FROM employees e
		JOIN tenant_settings t ON t.tenant_id = e.tenant_id
		WHERE e.active = true
		  AND t.legacy_phone_match = true
		  AND e.phone LIKE '%' || $1
		LIMIT 1
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, suffix))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee by phone suffix: %w", err)
	}
	return e, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE active = true
		ORDER BY tenant_id, name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Name, &e.Phone, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}
