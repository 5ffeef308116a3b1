package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore is a process-local RowStore used when no database is
// configured and in tests. Rows are kept as decoded JSON objects.
type MemoryStore struct {
	mu       sync.Mutex
	tables   map[string][]map[string]interface{}
	failures map[string]error
}

// NewMemoryStore creates an empty in-memory row store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:   make(map[string][]map[string]interface{}),
		failures: make(map[string]error),
	}
}

// FailOn makes every later op ("select", "insert", "update", "delete") on
// table return err. A nil err clears the failure.
func (m *MemoryStore) FailOn(op, table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := op + ":" + table
	if err == nil {
		delete(m.failures, key)
		return
	}
	m.failures[key] = err
}

func (m *MemoryStore) failure(op, table string) error {
	if err, ok := m.failures[op+":"+table]; ok {
		return fmt.Errorf("%s %s: %w", op, table, err)
	}
	return nil
}

// SelectAll copies every row of table into dest
func (m *MemoryStore) SelectAll(ctx context.Context, table string, dest interface{}) error {
	if err := validateTable(table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("select", table); err != nil {
		return err
	}

	rows := m.tables[table]
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Insert appends rows to table
func (m *MemoryStore) Insert(ctx context.Context, table string, rows interface{}) error {
	if err := validateTable(table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("insert", table); err != nil {
		return err
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	var decoded []map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("insert %s: rows must be a slice: %w", table, err)
	}
	m.tables[table] = append(m.tables[table], decoded...)
	return nil
}

// UpdateByID merges patch into the matching row
func (m *MemoryStore) UpdateByID(ctx context.Context, table, idField, idValue string, patch map[string]interface{}) error {
	if err := validateTable(table); err != nil {
		return err
	}
	if err := validateField(idField); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("update", table); err != nil {
		return err
	}

	key := columnToJSON(idField)
	for _, row := range m.tables[table] {
		if fmt.Sprint(row[key]) != idValue {
			continue
		}
		for col, v := range patch {
			normalized, err := normalize(v)
			if err != nil {
				return err
			}
			row[columnToJSON(col)] = normalized
		}
		return nil
	}
	return fmt.Errorf("update %s %s: %w", table, idValue, ErrNotFound)
}

// DeleteByIDs removes every matching row
func (m *MemoryStore) DeleteByIDs(ctx context.Context, table, idField string, ids []string) error {
	if err := validateTable(table); err != nil {
		return err
	}
	if err := validateField(idField); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("delete", table); err != nil {
		return err
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	key := columnToJSON(idField)
	kept := m.tables[table][:0]
	for _, row := range m.tables[table] {
		if _, ok := drop[fmt.Sprint(row[key])]; !ok {
			kept = append(kept, row)
		}
	}
	m.tables[table] = kept
	return nil
}

// HasTable always reports true; memory tables are created on first insert
func (m *MemoryStore) HasTable(ctx context.Context, table string) bool {
	return validateTable(table) == nil
}

// Count returns the number of rows in table
func (m *MemoryStore) Count(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

// columnToJSON maps a snake_case column to its camelCase JSON key
func columnToJSON(col string) string {
	parts := strings.Split(col, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func normalize(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	err = json.Unmarshal(raw, &out)
	return out, err
}
