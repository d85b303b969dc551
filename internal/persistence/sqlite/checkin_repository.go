package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/staff-calendar/internal/persistence"
)

// CreateCheckin stores a patient check-in for checkin.Employee.
func (s *Storage) CreateCheckin(ctx context.Context, checkin persistence.Checkin) (persistence.Checkin, error) {
	checkin.Employee = strings.TrimSpace(checkin.Employee)

	err := s.WithTransaction(ctx, func(tx *sql.Tx) error {
		employeeID, err := ensureEmployee(ctx, tx, checkin.Employee)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO checkins (employee_id, patient, notes, checkin, created) VALUES (?, ?, ?, ?, ?)`,
			employeeID, checkin.Patient, checkin.Notes, checkin.Checkin, checkin.Create,
		)
		if err != nil {
			return mapError(err)
		}

		checkin.EmployeeID = employeeID
		checkin.ID, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return persistence.Checkin{}, err
	}
	return checkin, nil
}

// ListCheckins returns every check-in with its owner's name.
func (s *Storage) ListCheckins(ctx context.Context) ([]persistence.Checkin, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.employee_id, e.name, c.patient, c.notes, c.checkin, c.created
		FROM checkins c
		JOIN employees e ON e.id = c.employee_id
		ORDER BY c.id
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	checkins := make([]persistence.Checkin, 0)
	for rows.Next() {
		var c persistence.Checkin
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.Employee, &c.Patient, &c.Notes, &c.Checkin, &c.Create); err != nil {
			return nil, fmt.Errorf("sqlite: scan checkin: %w", err)
		}
		checkins = append(checkins, c)
	}
	return checkins, rows.Err()
}

// DeleteCheckin removes a check-in by ID.
func (s *Storage) DeleteCheckin(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM checkins WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}
