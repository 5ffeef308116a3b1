package utils

import (
	"fmt"
	"math/rand/v2"
	"regexp"

	"github.com/google/uuid"
)

// Code prefixes for generated identifiers
const (
	PlaceholderCustomerPrefix = "MAT-"
	ManualTrackingPrefix      = "MN-"
)

var (
	placeholderPattern = regexp.MustCompile(`^MAT-\d{4}$`)
	trackingPattern    = regexp.MustCompile(`^MN-\d{4}$`)
)

// NewID returns a fresh row identifier
func NewID() string {
	return uuid.New().String()
}

// PlaceholderCustomerID stands in for a customer id missing from imported data
func PlaceholderCustomerID() string {
	return fmt.Sprintf("%s%04d", PlaceholderCustomerPrefix, rand.IntN(10000))
}

// ManualTrackingCode generates a tracking code for manually entered deliveries
func ManualTrackingCode() string {
	return fmt.Sprintf("%s%d", ManualTrackingPrefix, 1000+rand.IntN(9000))
}

// IsPlaceholderCustomerID reports whether id was produced by PlaceholderCustomerID
func IsPlaceholderCustomerID(id string) bool {
	return placeholderPattern.MatchString(id)
}

// IsManualTrackingCode reports whether code was produced by ManualTrackingCode
func IsManualTrackingCode(code string) bool {
	return trackingPattern.MatchString(code)
}
