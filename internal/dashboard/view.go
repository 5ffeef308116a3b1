package dashboard

import "github.com/xelth-com/swiftlog/internal/models"

// InBranch reports whether d belongs to branch; models.BranchAll matches all
func InBranch(d models.Delivery, branch string) bool {
	return branch == models.BranchAll || d.Branch == branch
}

// Scope is the branch and date window shared by every tab
type Scope struct {
	Branch    string
	Range     Range
	Reference string
}

// BuildView applies the branch scope then the date window, preserving the
// input order. The result never aliases the input slice.
func BuildView(deliveries []models.Delivery, scope Scope, today Day) []models.Delivery {
	view := make([]models.Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		if !InBranch(d, scope.Branch) {
			continue
		}
		if !IsInRange(d.Date, scope.Range, scope.Reference, today) {
			continue
		}
		view = append(view, d)
	}
	return view
}

// ByBranch applies only the branch scope
func ByBranch(deliveries []models.Delivery, branch string) []models.Delivery {
	out := make([]models.Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		if InBranch(d, branch) {
			out = append(out, d)
		}
	}
	return out
}

// OnDate returns the deliveries dated on day, in either accepted format
func OnDate(deliveries []models.Delivery, day Day) []models.Delivery {
	out := make([]models.Delivery, 0)
	for _, d := range deliveries {
		if dd, err := ParseDate(d.Date); err == nil && dd == day {
			out = append(out, d)
		}
	}
	return out
}
