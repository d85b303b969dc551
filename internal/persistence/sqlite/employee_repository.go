package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/staff-calendar/internal/persistence"
)

// CreateEmployee inserts a new employee. A name already on the roster is
// reported as persistence.ErrConflict.
func (s *Storage) CreateEmployee(ctx context.Context, name string) (persistence.Employee, error) {
	name = strings.TrimSpace(name)
	result, err := s.db.ExecContext(ctx, `INSERT INTO employees (name) VALUES (?)`, name)
	if err != nil {
		return persistence.Employee{}, mapError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistence.Employee{}, fmt.Errorf("sqlite: employee id: %w", err)
	}
	return persistence.Employee{ID: id, Name: name}, nil
}

// EnsureEmployee returns the employee with the given name, creating it if
// needed.
func (s *Storage) EnsureEmployee(ctx context.Context, name string) (persistence.Employee, error) {
	name = strings.TrimSpace(name)
	id, err := ensureEmployee(ctx, s.db, name)
	if err != nil {
		return persistence.Employee{}, err
	}
	return persistence.Employee{ID: id, Name: name}, nil
}

// ListEmployees returns the roster in insertion order, which is also the
// calendar column order.
func (s *Storage) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM employees ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	employees := make([]persistence.Employee, 0)
	for rows.Next() {
		var employee persistence.Employee
		if err := rows.Scan(&employee.ID, &employee.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scan employee: %w", err)
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// CountEmployees returns the roster size.
func (s *Storage) CountEmployees(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

func ensureEmployee(ctx context.Context, q queryer, name string) (int64, error) {
	if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO employees (name) VALUES (?)`, name); err != nil {
		return 0, mapError(err)
	}

	var id int64
	if err := q.QueryRowContext(ctx, `SELECT id FROM employees WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, mapError(err)
	}
	return id, nil
}
