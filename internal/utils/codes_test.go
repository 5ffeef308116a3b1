package utils

import "testing"

func TestGeneratedCodes(t *testing.T) {
	for i := 0; i < 200; i++ {
		if id := PlaceholderCustomerID(); !IsPlaceholderCustomerID(id) {
			t.Fatalf("bad placeholder id %q", id)
		}
		if code := ManualTrackingCode(); !IsManualTrackingCode(code) {
			t.Fatalf("bad tracking code %q", code)
		}
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == "" || a == b {
		t.Errorf("ids should be unique and non-empty: %q %q", a, b)
	}
	if IsPlaceholderCustomerID("MAT-12") {
		t.Error("short id should not match")
	}
}
