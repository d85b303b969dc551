package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/example/staff-calendar/internal/persistence"
	"gopkg.in/yaml.v3"
)

//go:embed forms.yaml
var defaultForms []byte

type formCatalog struct {
	Records []recordDefinition `yaml:"records"`
}

type recordDefinition struct {
	Name   string            `yaml:"name"`
	Table  string            `yaml:"table"`
	Fields []fieldDefinition `yaml:"fields"`
	Forms  []formDefinition  `yaml:"forms"`
}

type fieldDefinition struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	ForeignTable string `yaml:"foreign_table"`
}

type formDefinition struct {
	Type    string                `yaml:"type"`
	Label   string                `yaml:"label"`
	Subtabs []string              `yaml:"subtabs"`
	Fields  []formFieldDefinition `yaml:"fields"`
}

type formFieldDefinition struct {
	Field    string `yaml:"field"`
	Label    string `yaml:"label"`
	ReadOnly bool   `yaml:"readonly"`
	Subtab   string `yaml:"subtab"`
}

// SeedForms loads the built-in form catalog.
func (s *Storage) SeedForms(ctx context.Context) error {
	return s.SeedFormsFrom(ctx, defaultForms)
}

// SeedFormsFrom loads a YAML form catalog. Records, fields and forms are
// inserted once; field placements are replaced so edits take effect.
func (s *Storage) SeedFormsFrom(ctx context.Context, data []byte) error {
	var catalog formCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("sqlite: parse form catalog: %w", err)
	}

	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, record := range catalog.Records {
			if err := seedRecord(ctx, tx, record); err != nil {
				return fmt.Errorf("sqlite: seed %s forms: %w", record.Name, err)
			}
		}
		return nil
	})
}

func seedRecord(ctx context.Context, tx *sql.Tx, record recordDefinition) error {
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO records (name, table_name) VALUES (?, ?)`, record.Name, record.Table); err != nil {
		return mapError(err)
	}
	var recordID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM records WHERE name = ?`, record.Name).Scan(&recordID); err != nil {
		return mapError(err)
	}

	fieldIDs := make(map[string]int64, len(record.Fields))
	for _, field := range record.Fields {
		foreign := sql.NullString{String: field.ForeignTable, Valid: field.ForeignTable != ""}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO fields (record_id, name, type, foreign_table) VALUES (?, ?, ?, ?)`,
			recordID, field.Name, field.Type, foreign,
		); err != nil {
			return mapError(err)
		}
		var id int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM fields WHERE record_id = ? AND name = ?`, recordID, field.Name).Scan(&id); err != nil {
			return mapError(err)
		}
		fieldIDs[field.Name] = id
	}

	for _, form := range record.Forms {
		label := form.Label
		if label == "" {
			label = record.Name + " " + form.Type
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO form_records (record_id, form_type, label) VALUES (?, ?, ?)`,
			recordID, form.Type, label,
		); err != nil {
			return mapError(err)
		}
		var formID int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM form_records WHERE record_id = ? AND form_type = ?`, recordID, form.Type).Scan(&formID); err != nil {
			return mapError(err)
		}

		subtabIDs := make(map[string]int64, len(form.Subtabs))
		for i, subtab := range form.Subtabs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO form_subtabs (form_id, label, ord) VALUES (?, ?, ?)
				 ON CONFLICT (form_id, label) DO UPDATE SET ord = excluded.ord`,
				formID, subtab, i+1,
			); err != nil {
				return mapError(err)
			}
			var id int64
			if err := tx.QueryRowContext(ctx, `SELECT id FROM form_subtabs WHERE form_id = ? AND label = ?`, formID, subtab).Scan(&id); err != nil {
				return mapError(err)
			}
			subtabIDs[subtab] = id
		}

		for i, placement := range form.Fields {
			fieldID, ok := fieldIDs[placement.Field]
			if !ok {
				return fmt.Errorf("form %s references unknown field %q", form.Type, placement.Field)
			}
			subtab := sql.NullInt64{}
			if placement.Subtab != "" {
				id, ok := subtabIDs[placement.Subtab]
				if !ok {
					return fmt.Errorf("form %s references unknown subtab %q", form.Type, placement.Subtab)
				}
				subtab = sql.NullInt64{Int64: id, Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO form_fields (form_id, field_id, label, readonly, ord, subtab_id) VALUES (?, ?, ?, ?, ?, ?)`,
				formID, fieldID, placement.Label, placement.ReadOnly, i+1, subtab,
			); err != nil {
				return mapError(err)
			}
		}
	}
	return nil
}

// GetForm returns the field layout of record for formType.
func (s *Storage) GetForm(ctx context.Context, record, formType string) (persistence.Form, error) {
	form := persistence.Form{Record: record, FormType: formType}
	err := s.db.QueryRowContext(ctx, `
		SELECT fr.id, fr.label
		FROM form_records fr
		JOIN records r ON r.id = fr.record_id
		WHERE r.name = ? AND fr.form_type = ?
	`, record, formType).Scan(&form.ID, &form.Label)
	if err != nil {
		return persistence.Form{}, mapError(err)
	}

	if form.Subtabs, err = s.formSubtabs(ctx, form.ID); err != nil {
		return persistence.Form{}, err
	}
	if form.Fields, err = s.formFields(ctx, form.ID); err != nil {
		return persistence.Form{}, err
	}
	return form, nil
}

func (s *Storage) formSubtabs(ctx context.Context, formID int64) ([]persistence.FormSubtab, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label, ord FROM form_subtabs WHERE form_id = ? ORDER BY ord, id`, formID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	subtabs := make([]persistence.FormSubtab, 0)
	for rows.Next() {
		var subtab persistence.FormSubtab
		if err := rows.Scan(&subtab.ID, &subtab.Label, &subtab.Order); err != nil {
			return nil, fmt.Errorf("sqlite: scan subtab: %w", err)
		}
		subtabs = append(subtabs, subtab)
	}
	return subtabs, rows.Err()
}

func (s *Storage) formFields(ctx context.Context, formID int64) ([]persistence.FormField, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.name, f.type, f.foreign_table, ff.label, ff.readonly, ff.ord, ff.subtab_id
		FROM form_fields ff
		JOIN fields f ON f.id = ff.field_id
		WHERE ff.form_id = ?
		ORDER BY ff.ord, f.id
	`, formID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	fields := make([]persistence.FormField, 0)
	for rows.Next() {
		var (
			field   persistence.FormField
			foreign sql.NullString
			subtab  sql.NullInt64
		)
		if err := rows.Scan(&field.ID, &field.Name, &field.Type, &foreign, &field.Label, &field.ReadOnly, &field.Order, &subtab); err != nil {
			return nil, fmt.Errorf("sqlite: scan form field: %w", err)
		}
		field.ForeignTable = nullableString(foreign)
		field.SubtabID = nullableInt64(subtab)
		fields = append(fields, field)
	}
	return fields, rows.Err()
}
