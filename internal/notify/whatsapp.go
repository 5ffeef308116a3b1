// Package notify builds the outbound notices sent to sellers when one of
// their customers' deliveries comes back.
package notify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/xelth-com/swiftlog/internal/models"
)

var (
	// ErrNotReturned is returned for deliveries that are not in Returned status
	ErrNotReturned = errors.New("delivery is not returned")
	// ErrNoSellerMapping is returned when the customer has no assigned seller
	ErrNoSellerMapping = errors.New("customer has no seller mapping")
	// ErrNoSellerPhone is returned when the seller mapping carries no phone
	ErrNoSellerPhone = errors.New("seller has no phone number")
)

// DefaultBaseURL is the click-to-chat endpoint
const DefaultBaseURL = "https://wa.me/"

// ReturnNotice is a ready-to-open seller message
type ReturnNotice struct {
	DeliveryID string `json:"deliveryId"`
	CustomerID string `json:"customerId"`
	SellerName string `json:"sellerName"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	URL        string `json:"url"`
}

// BuildReturnNotice prepares the message for the seller of a returned
// delivery. Later mappings for the same customer win.
func BuildReturnNotice(d models.Delivery, mappings []models.ClientMapping, baseURL string) (*ReturnNotice, error) {
	if d.Status != models.StatusReturned {
		return nil, ErrNotReturned
	}

	var mapping *models.ClientMapping
	for i := range mappings {
		if mappings[i].CustomerID == d.CustomerID {
			mapping = &mappings[i]
		}
	}
	if mapping == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSellerMapping, d.CustomerID)
	}

	phone := digits(mapping.SellerPhone)
	if phone == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoSellerPhone, mapping.SellerName)
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	msg := ReturnMessage(d)
	return &ReturnNotice{
		DeliveryID: d.ID,
		CustomerID: d.CustomerID,
		SellerName: mapping.SellerName,
		Phone:      phone,
		Message:    msg,
		URL:        baseURL + phone + "?text=" + encodeComponent(msg),
	}, nil
}

// ReturnMessage renders the notice text for a returned delivery
func ReturnMessage(d models.Delivery) string {
	reason := d.ReturnReason
	if reason == "" {
		reason = "Não informado"
	}
	notes := d.ReturnNotes
	if notes == "" {
		notes = "---"
	}

	var sb strings.Builder
	sb.WriteString("🚨 *AVISO DE RETORNO - SWIFTLOG*\n\n")
	fmt.Fprintf(&sb, "*Matrícula:* %s\n", d.CustomerID)
	fmt.Fprintf(&sb, "*Cliente:* %s\n", d.CustomerName)
	fmt.Fprintf(&sb, "*Motorista:* %s\n", d.DriverName)
	fmt.Fprintf(&sb, "*Volumes:* %d CX\n\n", d.BoxQuantity)
	fmt.Fprintf(&sb, "*Motivo do Retorno:* %s\n", reason)
	fmt.Fprintf(&sb, "*Obs:* %s\n\n", notes)
	sb.WriteString("_Por favor, entrar em contato com o cliente._")
	return sb.String()
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// encodeComponent escapes spaces as %20 rather than '+'
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
