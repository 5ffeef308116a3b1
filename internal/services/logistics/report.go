package logistics

import (
	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/notify"
	"github.com/xelth-com/swiftlog/internal/services/printer"
)

// ReturnReport assembles the printable returns sheet for scope
func (s *Service) ReturnReport(scope dashboard.Scope) printer.ReturnReport {
	sn := s.Snapshot()
	today := s.Today()
	view := dashboard.BuildView(sn.Deliveries, scope, today)
	returned := dashboard.Returned(view)
	stats := dashboard.ComputeStats(returned)

	report := printer.ReturnReport{
		Title:       printer.ConsolidatedTitle,
		Period:      dashboard.PeriodLabel(scope.Range, scope.Reference, today),
		GeneratedAt: s.opts.Clock().In(s.opts.Location),
		Returns:     len(returned),
		Boxes:       stats.TotalBoxes,
		Reasons:     make([]printer.ReasonLine, 0),
		Rows:        make([]printer.ReturnRow, 0, len(returned)),
	}
	if scope.Branch != models.BranchAll {
		report.Title = scope.Branch
		for _, b := range sn.Branches {
			if b.ID == scope.Branch {
				report.Title = b.Name
				break
			}
		}
	}
	for _, rc := range dashboard.ReturnsByReason(view) {
		report.Reasons = append(report.Reasons, printer.ReasonLine{Reason: rc.Reason, Count: rc.Count})
	}

	sellers := dashboard.MappingIndex(sn.Mappings)
	for _, d := range returned {
		row := printer.ReturnRow{
			CustomerID:   d.CustomerID,
			CustomerName: d.CustomerName,
			DriverName:   d.DriverName,
			Reason:       d.ReturnReason,
			Boxes:        d.BoxQuantity,
			SellerName:   dashboard.NoSeller,
		}
		if row.Reason == "" {
			row.Reason = dashboard.OtherReason
		}
		if m, ok := sellers[d.CustomerID]; ok {
			row.SellerName = m.SellerName
		}
		if notice, err := notify.BuildReturnNotice(d, sn.Mappings, s.opts.WhatsAppBaseURL); err == nil {
			row.NoticeURL = notice.URL
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}
