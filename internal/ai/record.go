package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a delivery-like object as returned by the model. Every field is
// optional until Normalize fills the gaps.
type Record struct {
	ID           string   `json:"id,omitempty"`
	CustomerID   string   `json:"customerId"`
	CustomerName string   `json:"customerName"`
	Address      string   `json:"address"`
	Status       string   `json:"status,omitempty"`
	Date         string   `json:"date,omitempty"`
	TrackingCode string   `json:"trackingCode"`
	DriverName   string   `json:"driverName,omitempty"`
	Branch       string   `json:"branch,omitempty"`
	BoxQuantity  Quantity `json:"boxQuantity"`
	Items        []string `json:"items,omitempty"`
}

// Quantity decodes a count given as number, numeric string or null.
// Anything unreadable decodes as 0.
type Quantity int

func (q *Quantity) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*q = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*q = Quantity(n)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*q = Quantity(int(f))
		return nil
	}
	*q = 0
	return nil
}

// DecodeRecords reads model output: a JSON array of records, a single
// record, or an object wrapping the array. Markdown fences are stripped.
func DecodeRecords(raw string) ([]Record, error) {
	cleaned := SanitizeJSON(raw)
	if cleaned == "" {
		return []Record{}, nil
	}

	data := []byte(cleaned)
	switch {
	case bytes.HasPrefix(data, []byte("[")):
		var out []Record
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode record array: %w", err)
		}
		if out == nil {
			out = []Record{}
		}
		return out, nil
	case bytes.HasPrefix(data, []byte("{")):
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("decode record object: %w", err)
		}
		for _, key := range []string{"deliveries", "records", "data", "items"} {
			if inner, ok := wrapper[key]; ok && bytes.HasPrefix(bytes.TrimSpace(inner), []byte("[")) {
				return DecodeRecords(string(inner))
			}
		}
		var single Record
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		return []Record{single}, nil
	}
	return nil, fmt.Errorf("unexpected extraction output")
}
