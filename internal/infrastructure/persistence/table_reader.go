package persistence

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/rastreo/backend/internal/domain/tracking"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidTableName is returned for names that are not plain identifiers
	ErrInvalidTableName = errors.New("invalid table name")

	// ErrTableNotFound is returned when the table does not exist
	ErrTableNotFound = errors.New("table not found")
)

// Letters, digits, underscore and inner spaces. Spreadsheet tab names such as
// "Ticket" or "Cliente" map onto tables of the same name.
var tableNamePattern = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_ ]{0,62}$`)

// ValidateTableName checks that name can be used as a quoted table identifier
func ValidateTableName(name string) error {
	if !tableNamePattern.MatchString(name) || name[len(name)-1] == ' ' {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, name)
	}
	return nil
}

// ReadTable selects every row of a table, keeping the database column order
func (d *Database) ReadTable(ctx context.Context, name string) (*tracking.Table, error) {
	if err := ValidateTableName(name); err != nil {
		return nil, err
	}

	db := d.DB.WithContext(ctx)
	if !db.Migrator().HasTable(name) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	rows, err := db.Table("?", clause.Table{Name: name}).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}

	table := &tracking.Table{Name: name, Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", name, err)
		}

		row := make(tracking.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate table %s: %w", name, err)
	}

	return table, nil
}
