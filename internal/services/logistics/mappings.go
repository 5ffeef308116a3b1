package logistics

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/validator"
)

// MappingInput assigns a customer to a seller
type MappingInput struct {
	CustomerID   string `json:"customerId" validate:"required"`
	CustomerName string `json:"customerName"`
	SellerCode   string `json:"sellerCode"`
	SellerName   string `json:"sellerName" validate:"required"`
	SellerPhone  string `json:"sellerPhone"`
}

// AddMapping stores one seller assignment, replacing any earlier one for
// the same customer
func (s *Service) AddMapping(ctx context.Context, in MappingInput) (models.ClientMapping, error) {
	out, err := s.BulkAddMappings(ctx, []MappingInput{in})
	if err != nil {
		return models.ClientMapping{}, err
	}
	return out[0], nil
}

// BulkAddMappings stores a batch of assignments. Duplicate customer ids are
// resolved last-write-wins, both inside the batch and against stored rows.
func (s *Service) BulkAddMappings(ctx context.Context, ins []MappingInput) ([]models.ClientMapping, error) {
	if len(ins) == 0 {
		return nil, invalid("no mappings to add")
	}

	order := make([]string, 0, len(ins))
	latest := make(map[string]models.ClientMapping, len(ins))
	for _, in := range ins {
		in.CustomerID = strings.TrimSpace(in.CustomerID)
		in.SellerName = strings.TrimSpace(in.SellerName)
		if err := validator.ValidateStruct(in); err != nil {
			return nil, invalid("%v", err)
		}
		if _, seen := latest[in.CustomerID]; !seen {
			order = append(order, in.CustomerID)
		}
		latest[in.CustomerID] = models.ClientMapping{
			CustomerID:   in.CustomerID,
			CustomerName: strings.TrimSpace(in.CustomerName),
			SellerCode:   strings.TrimSpace(in.SellerCode),
			SellerName:   in.SellerName,
			SellerPhone:  strings.TrimSpace(in.SellerPhone),
		}
	}

	stored := make(map[string]struct{})
	for _, m := range s.Mappings() {
		stored[m.CustomerID] = struct{}{}
	}

	var fresh []models.ClientMapping
	var freshIDs, replaced []string
	for _, id := range order {
		if _, ok := stored[id]; ok {
			replaced = append(replaced, id)
			continue
		}
		fresh = append(fresh, latest[id])
		freshIDs = append(freshIDs, id)
	}

	if len(fresh) > 0 {
		if err := insertRows(ctx, s, "add_mappings", models.TableMappings, mappingsOf, fresh, freshIDs); err != nil {
			return nil, err
		}
	}
	saved := make(map[string]models.ClientMapping, len(order))
	for _, m := range fresh {
		saved[m.CustomerID] = m
	}
	var syncErr error
	if len(replaced) > 0 {
		var updated []models.ClientMapping
		updated, syncErr = updateRows(ctx, s, "replace_mappings", models.TableMappings, models.FieldCustomerID, replaced, mappingsOf, mappingKey,
			func(m models.ClientMapping) (models.ClientMapping, map[string]interface{}, error) {
				n := latest[m.CustomerID]
				return n, map[string]interface{}{
					"customer_name": n.CustomerName,
					"seller_code":   n.SellerCode,
					"seller_name":   n.SellerName,
					"seller_phone":  n.SellerPhone,
				}, nil
			})
		for _, m := range updated {
			saved[m.CustomerID] = m
		}
	}

	out := make([]models.ClientMapping, 0, len(saved))
	for _, id := range order {
		if m, ok := saved[id]; ok {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, syncErr
	}
	if syncErr == nil {
		log.Info().Int("new", len(fresh)).Int("replaced", len(replaced)).Msg("🔗 Seller mappings saved")
	}
	customers := make([]string, len(out))
	for i, m := range out {
		customers[i] = m.CustomerID
	}
	s.publish(EventMappings, map[string]interface{}{"customers": customers})
	return out, syncErr
}

// RemoveMapping deletes a seller assignment
func (s *Service) RemoveMapping(ctx context.Context, customerID string) error {
	if err := removeRows(ctx, s, "remove_mapping", models.TableMappings, models.FieldCustomerID, []string{customerID}, mappingsOf, mappingKey); err != nil {
		return err
	}
	s.publish(EventMappings, map[string]string{"removed": customerID})
	return nil
}

func mappingKey(m models.ClientMapping) string { return m.CustomerID }
