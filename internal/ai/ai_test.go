package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/utils"
)

func TestSanitizeJSON(t *testing.T) {
	assert.Equal(t, `[{"a":1}]`, SanitizeJSON("```json\n[{\"a\":1}]\n```"))
	assert.Equal(t, `{}`, SanitizeJSON("```{}```"))
	assert.Equal(t, `[]`, SanitizeJSON("  []  "))
}

func TestDecodeRecords(t *testing.T) {
	raw := "```json\n" + `[
		{"customerId":"MAT-10","customerName":"Mercado Sol","boxQuantity":"3"},
		{"customerName":"Sem Matricula","boxQuantity":null},
		{"customerId":"MAT-12","boxQuantity":2.0}
	]` + "\n```"

	recs, err := DecodeRecords(raw)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, Quantity(3), recs[0].BoxQuantity)
	assert.Equal(t, Quantity(0), recs[1].BoxQuantity)
	assert.Equal(t, Quantity(2), recs[2].BoxQuantity)
}

func TestDecodeRecords_Shapes(t *testing.T) {
	recs, err := DecodeRecords(`{"deliveries":[{"customerId":"A"},{"customerId":"B"}]}`)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = DecodeRecords(`{"customerId":"A"}`)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "A", recs[0].CustomerID)

	recs, err = DecodeRecords("")
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = DecodeRecords("Sorry, I cannot help with that.")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	today := dashboard.DayOf(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))
	recs := []Record{
		{CustomerID: " MAT-7 ", CustomerName: "Padaria Lua", Date: "05/03/2024", BoxQuantity: 4, TrackingCode: "TRK-9", Status: "Entregue"},
		{BoxQuantity: -2},
	}

	out := Normalize(recs, "rj-01", today)
	require.Len(t, out, 2)

	first := out[0]
	assert.Equal(t, "MAT-7", first.CustomerID)
	assert.Equal(t, "2024-03-05", first.Date)
	assert.Equal(t, 4, first.BoxQuantity)
	assert.Equal(t, models.StatusPending, first.Status)
	assert.Equal(t, "rj-01", first.Branch)
	assert.Equal(t, "TRK-9", first.TrackingCode)
	assert.NotEmpty(t, first.ID)

	second := out[1]
	assert.True(t, utils.IsPlaceholderCustomerID(second.CustomerID))
	assert.Equal(t, DefaultCustomerName, second.CustomerName)
	assert.Equal(t, DefaultAddress, second.Address)
	assert.Equal(t, models.DefaultBoxQuantity, second.BoxQuantity)
	assert.Equal(t, "2024-03-10", second.Date)
	assert.Equal(t, "Domingo", second.DeliveryDay)
	assert.True(t, utils.IsManualTrackingCode(second.TrackingCode))
	assert.NotNil(t, second.Items)
}
