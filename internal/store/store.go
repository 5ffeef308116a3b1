package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/xelth-com/swiftlog/internal/models"
)

var (
	// ErrNotFound is returned when an update or delete matched no row
	ErrNotFound = errors.New("row not found")
	// ErrUnknownTable is returned for tables outside the logistics schema
	ErrUnknownTable = errors.New("unknown table")
	// ErrUnknownField is returned for id fields that are not key columns
	ErrUnknownField = errors.New("unknown id field")
)

// RowStore is the table-CRUD surface of the remote persistence layer.
// Patch keys are column names (snake_case).
type RowStore interface {
	SelectAll(ctx context.Context, table string, dest interface{}) error
	Insert(ctx context.Context, table string, rows interface{}) error
	UpdateByID(ctx context.Context, table, idField, idValue string, patch map[string]interface{}) error
	DeleteByIDs(ctx context.Context, table, idField string, ids []string) error
}

// TableChecker is implemented by stores that can report whether a table exists
type TableChecker interface {
	HasTable(ctx context.Context, table string) bool
}

func validateTable(table string) error {
	for _, t := range models.Tables {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownTable, table)
}

func validateField(field string) error {
	switch field {
	case models.FieldID, models.FieldCustomerID:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, field)
}
