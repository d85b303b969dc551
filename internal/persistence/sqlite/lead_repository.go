package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/staff-calendar/internal/persistence"
)

// CreateLead stores a lead for lead.Employee, creating the employee on
// first reference.
func (s *Storage) CreateLead(ctx context.Context, lead persistence.Lead) (persistence.Lead, error) {
	lead.Employee = strings.TrimSpace(lead.Employee)

	err := s.WithTransaction(ctx, func(tx *sql.Tx) error {
		employeeID, err := ensureEmployee(ctx, tx, lead.Employee)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO leads (employee_id, firstname, lastname, created) VALUES (?, ?, ?, ?)`,
			employeeID, lead.Firstname, lead.Lastname, lead.Create,
		)
		if err != nil {
			return mapError(err)
		}

		lead.EmployeeID = employeeID
		lead.ID, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return persistence.Lead{}, err
	}
	return lead, nil
}

// ListLeads returns every lead with its owner's name.
func (s *Storage) ListLeads(ctx context.Context) ([]persistence.Lead, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.employee_id, e.name, l.firstname, l.lastname, l.created
		FROM leads l
		JOIN employees e ON e.id = l.employee_id
		ORDER BY l.id
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	leads := make([]persistence.Lead, 0)
	for rows.Next() {
		var lead persistence.Lead
		if err := rows.Scan(&lead.ID, &lead.EmployeeID, &lead.Employee, &lead.Firstname, &lead.Lastname, &lead.Create); err != nil {
			return nil, fmt.Errorf("sqlite: scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// DeleteLead removes a lead by ID.
func (s *Storage) DeleteLead(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}
