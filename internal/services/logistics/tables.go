package logistics

import (
	"context"

	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/store"
)

// TableStatus is the reachability of one row-store table
type TableStatus struct {
	Table     string `json:"table"`
	Exists    bool   `json:"exists"`
	Reachable bool   `json:"reachable"`
	Rows      int    `json:"rows"`
	Error     string `json:"error,omitempty"`
}

// TableStatus probes every table of the schema
func (s *Service) TableStatus(ctx context.Context) []TableStatus {
	checker, canCheck := s.store.(store.TableChecker)
	out := make([]TableStatus, 0, len(models.Tables))
	for _, table := range models.Tables {
		st := TableStatus{Table: table, Exists: true}
		if canCheck {
			st.Exists = checker.HasTable(ctx, table)
		}
		var rows []map[string]interface{}
		if err := s.store.SelectAll(ctx, table, &rows); err != nil {
			st.Error = err.Error()
		} else {
			st.Reachable = true
			st.Rows = len(rows)
		}
		out = append(out, st)
	}
	return out
}
