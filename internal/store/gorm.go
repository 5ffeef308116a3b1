package store

import (
	"context"
	"fmt"

	"github.com/xelth-com/swiftlog/internal/metrics"
	"gorm.io/gorm"
)

// GormStore implements RowStore on top of a gorm connection
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a row store backed by db
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// SelectAll loads every row of table into dest (pointer to slice)
func (s *GormStore) SelectAll(ctx context.Context, table string, dest interface{}) error {
	if err := validateTable(table); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Table(table).Find(dest).Error; err != nil {
		metrics.StoreErrors.WithLabelValues("select", table).Inc()
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

// Insert creates rows (pointer to slice of models) in table
func (s *GormStore) Insert(ctx context.Context, table string, rows interface{}) error {
	if err := validateTable(table); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Table(table).Create(rows).Error; err != nil {
		metrics.StoreErrors.WithLabelValues("insert", table).Inc()
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// UpdateByID applies patch to the row whose idField equals idValue
func (s *GormStore) UpdateByID(ctx context.Context, table, idField, idValue string, patch map[string]interface{}) error {
	if err := validateTable(table); err != nil {
		return err
	}
	if err := validateField(idField); err != nil {
		return err
	}
	if len(patch) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Table(table).Where(fmt.Sprintf("%s = ?", idField), idValue).Updates(patch)
	if res.Error != nil {
		metrics.StoreErrors.WithLabelValues("update", table).Inc()
		return fmt.Errorf("update %s %s: %w", table, idValue, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update %s %s: %w", table, idValue, ErrNotFound)
	}
	return nil
}

// DeleteByIDs removes all rows whose idField is in ids
func (s *GormStore) DeleteByIDs(ctx context.Context, table, idField string, ids []string) error {
	if err := validateTable(table); err != nil {
		return err
	}
	if err := validateField(idField); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s IN ?", table, idField)
	if err := s.db.WithContext(ctx).Exec(query, ids).Error; err != nil {
		metrics.StoreErrors.WithLabelValues("delete", table).Inc()
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// HasTable reports whether table exists in the connected schema
func (s *GormStore) HasTable(ctx context.Context, table string) bool {
	return s.db.WithContext(ctx).Migrator().HasTable(table)
}
