package logistics

import (
	"context"
	"strings"

	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/validator"
)

// ReputationInput registers a critical customer
type ReputationInput struct {
	CustomerID       string                  `json:"customerId" validate:"required"`
	ReturnCount      int                     `json:"returnCount" validate:"gte=0"`
	ComplaintCount   int                     `json:"complaintCount" validate:"gte=0"`
	Notes            string                  `json:"notes"`
	ComplaintReason  string                  `json:"complaintReason"`
	Status           models.ReputationStatus `json:"status" validate:"omitempty,oneof=Retorno Pendência Reclamação 'Restrição de Horário'"`
	RiskLevel        string                  `json:"riskLevel" validate:"omitempty,oneof=low medium high"`
	RegistrationDate string                  `json:"registrationDate"`
}

// ReputationPatch edits a critical customer; nil fields are left alone
type ReputationPatch struct {
	ReturnCount      *int                     `json:"returnCount"`
	ComplaintCount   *int                     `json:"complaintCount"`
	Notes            *string                  `json:"notes"`
	ComplaintReason  *string                  `json:"complaintReason"`
	Status           *models.ReputationStatus `json:"status"`
	RiskLevel        *string                  `json:"riskLevel"`
	ResolutionStatus *string                  `json:"resolutionStatus"`
}

// AddReputation registers one critical customer
func (s *Service) AddReputation(ctx context.Context, in ReputationInput) (models.CustomerReputation, error) {
	added, err := s.BulkAddReputations(ctx, []ReputationInput{in})
	if err != nil {
		return models.CustomerReputation{}, err
	}
	return added[0], nil
}

// BulkAddReputations registers a batch. The whole batch is rejected if any
// entry is invalid or its customer is already registered.
func (s *Service) BulkAddReputations(ctx context.Context, ins []ReputationInput) ([]models.CustomerReputation, error) {
	if len(ins) == 0 {
		return nil, invalid("no customers to add")
	}

	existing := make(map[string]struct{})
	for _, r := range s.Reputations() {
		existing[r.CustomerID] = struct{}{}
	}

	today := s.Today().Display()
	rows := make([]models.CustomerReputation, 0, len(ins))
	ids := make([]string, 0, len(ins))
	for _, in := range ins {
		in.CustomerID = strings.TrimSpace(in.CustomerID)
		if err := validator.ValidateStruct(in); err != nil {
			return nil, invalid("%v", err)
		}
		if _, dup := existing[in.CustomerID]; dup {
			return nil, ErrConflict
		}
		existing[in.CustomerID] = struct{}{}

		r := models.CustomerReputation{
			CustomerID:       in.CustomerID,
			ReturnCount:      in.ReturnCount,
			ComplaintCount:   in.ComplaintCount,
			Notes:            in.Notes,
			ComplaintReason:  in.ComplaintReason,
			Status:           in.Status,
			RiskLevel:        in.RiskLevel,
			ResolutionStatus: models.ResolutionPending,
			RegistrationDate: in.RegistrationDate,
		}
		if r.Status == "" {
			r.Status = models.ReputationReturn
		}
		if r.RiskLevel == "" {
			r.RiskLevel = models.RiskMedium
		}
		if r.RegistrationDate == "" {
			r.RegistrationDate = today
		}
		rows = append(rows, r)
		ids = append(ids, r.CustomerID)
	}

	if err := insertRows(ctx, s, "add_reputations", models.TableReputations, reputationsOf, rows, ids); err != nil {
		return nil, err
	}
	s.publish(EventReputations, map[string]interface{}{"added": ids})
	return rows, nil
}

// RemoveReputation deletes a critical customer
func (s *Service) RemoveReputation(ctx context.Context, customerID string) error {
	if err := removeRows(ctx, s, "remove_reputation", models.TableReputations, models.FieldCustomerID, []string{customerID}, reputationsOf, reputationKey); err != nil {
		return err
	}
	s.publish(EventReputations, map[string]string{"removed": customerID})
	return nil
}

// ToggleResolution flips a critical customer between pending and resolved
func (s *Service) ToggleResolution(ctx context.Context, customerID string) (models.CustomerReputation, error) {
	return s.updateReputation(ctx, "toggle_resolution", customerID, func(r models.CustomerReputation) (models.CustomerReputation, map[string]interface{}, error) {
		if r.ResolutionStatus == models.ResolutionResolved {
			r.ResolutionStatus = models.ResolutionPending
		} else {
			r.ResolutionStatus = models.ResolutionResolved
		}
		return r, map[string]interface{}{"resolution_status": r.ResolutionStatus}, nil
	})
}

// UpdateReputation edits a critical customer
func (s *Service) UpdateReputation(ctx context.Context, customerID string, p ReputationPatch) (models.CustomerReputation, error) {
	return s.updateReputation(ctx, "update_reputation", customerID, func(r models.CustomerReputation) (models.CustomerReputation, map[string]interface{}, error) {
		cols := make(map[string]interface{})
		if p.ReturnCount != nil {
			if *p.ReturnCount < 0 {
				return r, nil, invalid("returnCount must not be negative")
			}
			r.ReturnCount = *p.ReturnCount
			cols["return_count"] = r.ReturnCount
		}
		if p.ComplaintCount != nil {
			if *p.ComplaintCount < 0 {
				return r, nil, invalid("complaintCount must not be negative")
			}
			r.ComplaintCount = *p.ComplaintCount
			cols["complaint_count"] = r.ComplaintCount
		}
		if p.Notes != nil {
			r.Notes = *p.Notes
			cols["notes"] = r.Notes
		}
		if p.ComplaintReason != nil {
			r.ComplaintReason = *p.ComplaintReason
			cols["complaint_reason"] = r.ComplaintReason
		}
		if p.Status != nil {
			if !validReputationStatus(*p.Status) {
				return r, nil, invalid("unknown status %q", *p.Status)
			}
			r.Status = *p.Status
			cols["status"] = r.Status
		}
		if p.RiskLevel != nil {
			switch *p.RiskLevel {
			case models.RiskLow, models.RiskMedium, models.RiskHigh:
			default:
				return r, nil, invalid("unknown risk level %q", *p.RiskLevel)
			}
			r.RiskLevel = *p.RiskLevel
			cols["risk_level"] = r.RiskLevel
		}
		if p.ResolutionStatus != nil {
			if *p.ResolutionStatus != models.ResolutionPending && *p.ResolutionStatus != models.ResolutionResolved {
				return r, nil, invalid("unknown resolution status %q", *p.ResolutionStatus)
			}
			r.ResolutionStatus = *p.ResolutionStatus
			cols["resolution_status"] = r.ResolutionStatus
		}
		if len(cols) == 0 {
			return r, nil, invalid("nothing to update")
		}
		return r, cols, nil
	})
}

func (s *Service) updateReputation(ctx context.Context, op, customerID string, mutate mutation[models.CustomerReputation]) (models.CustomerReputation, error) {
	updated, err := updateRows(ctx, s, op, models.TableReputations, models.FieldCustomerID, []string{customerID}, reputationsOf, reputationKey, mutate)
	if err != nil {
		return models.CustomerReputation{}, err
	}
	s.publish(EventReputations, updated[0])
	return updated[0], nil
}

func reputationKey(r models.CustomerReputation) string { return r.CustomerID }

func validReputationStatus(s models.ReputationStatus) bool {
	switch s {
	case models.ReputationReturn, models.ReputationPendingIssue, models.ReputationComplaint, models.ReputationTimeRestriction:
		return true
	}
	return false
}
