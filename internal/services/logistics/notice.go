package logistics

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xelth-com/swiftlog/internal/notify"
)

// NotifySeller builds the seller notice of a returned delivery. A copy goes
// to the operations chat when one is configured.
func (s *Service) NotifySeller(ctx context.Context, deliveryID string) (*notify.ReturnNotice, error) {
	d, err := s.Delivery(deliveryID)
	if err != nil {
		return nil, err
	}
	notice, err := notify.BuildReturnNotice(d, s.Mappings(), s.opts.WhatsAppBaseURL)
	if err != nil {
		return nil, err
	}
	s.copyToOps(fmt.Sprintf("%s\n\nVendedor: %s\n%s", notice.Message, notice.SellerName, notice.URL))
	return notice, nil
}

func (s *Service) copyToOps(text string) {
	if s.opts.Sender == nil {
		return
	}
	go func() {
		if err := s.opts.Sender.Send(text); err != nil {
			log.Warn().Err(err).Msg("⚠️  Could not copy notice to operations chat")
		}
	}()
}
