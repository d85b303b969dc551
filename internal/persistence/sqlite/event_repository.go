package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/staff-calendar/internal/persistence"
)

// CreateEvent inserts an event and links its participants in the order
// given. Participants missing from the roster are created; repeated names
// are linked once.
func (s *Storage) CreateEvent(ctx context.Context, event persistence.Event) (persistence.Event, error) {
	participants := make([]string, 0, len(event.Participants))
	seen := make(map[string]struct{}, len(event.Participants))
	for _, name := range event.Participants {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		participants = append(participants, name)
	}
	event.Participants = participants

	err := s.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO events (title, start_time, end_time, created) VALUES (?, ?, ?, ?)`,
			event.Title, event.Start, event.End, event.Create,
		)
		if err != nil {
			return mapError(err)
		}
		if event.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("sqlite: event id: %w", err)
		}

		return insertParticipants(ctx, tx, event.ID, event.Participants)
	})
	if err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}

// ListEvents returns every event with its participant names.
func (s *Storage) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, start_time, end_time, created FROM events ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}

	events := make([]persistence.Event, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var event persistence.Event
		if err := rows.Scan(&event.ID, &event.Title, &event.Start, &event.End, &event.Create); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite: scan event: %w", err)
		}
		event.Participants = []string{}
		index[event.ID] = len(events)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := s.attachParticipants(ctx, events, index); err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteEvent removes an event and its participant links.
func (s *Storage) DeleteEvent(ctx context.Context, id int64) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_employees WHERE event_id = ?`, id); err != nil {
			return mapError(err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}
		return expectAffected(result)
	})
}

func insertParticipants(ctx context.Context, tx *sql.Tx, eventID int64, names []string) error {
	for position, name := range names {
		employeeID, err := ensureEmployee(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_employees (event_id, employee_id, position) VALUES (?, ?, ?)`,
			eventID, employeeID, position,
		); err != nil {
			return mapError(err)
		}
	}
	return nil
}

// attachParticipants loads all links in one query so no second statement
// runs while a result set is open on the single connection.
func (s *Storage) attachParticipants(ctx context.Context, events []persistence.Event, index map[int64]int) error {
	if len(events) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ee.event_id, e.name
		FROM event_employees ee
		JOIN employees e ON e.id = ee.employee_id
		ORDER BY ee.event_id, ee.position
	`)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			eventID int64
			name    string
		)
		if err := rows.Scan(&eventID, &name); err != nil {
			return fmt.Errorf("sqlite: scan participant: %w", err)
		}
		if i, ok := index[eventID]; ok {
			events[i].Participants = append(events[i].Participants, name)
		}
	}
	return rows.Err()
}
