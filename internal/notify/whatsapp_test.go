package notify

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/swiftlog/internal/models"
)

func returned() models.Delivery {
	return models.Delivery{
		ID:           "d-1",
		CustomerID:   "MAT-5",
		CustomerName: "Mercado Sol & Filhos",
		DriverName:   "J. Silva",
		BoxQuantity:  3,
		Status:       models.StatusReturned,
		ReturnReason: "Cliente Ausente",
	}
}

func TestBuildReturnNotice(t *testing.T) {
	mappings := []models.ClientMapping{
		{CustomerID: "MAT-5", SellerName: "Antiga", SellerPhone: "111"},
		{CustomerID: "MAT-5", SellerName: "Carla", SellerPhone: "+55 (11) 98888-7777"},
	}

	n, err := BuildReturnNotice(returned(), mappings, "")
	require.NoError(t, err)
	assert.Equal(t, "5511988887777", n.Phone)
	assert.Equal(t, "Carla", n.SellerName)
	assert.True(t, strings.HasPrefix(n.URL, "https://wa.me/5511988887777?text="))
	assert.NotContains(t, n.URL, "+")

	u, err := url.Parse(n.URL)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Equal(t, n.Message, text)
	assert.Contains(t, text, "*Matrícula:* MAT-5")
	assert.Contains(t, text, "*Volumes:* 3 CX")
	assert.Contains(t, text, "*Motivo do Retorno:* Cliente Ausente")
	assert.Contains(t, text, "*Obs:* ---")
}

func TestBuildReturnNotice_Errors(t *testing.T) {
	d := returned()
	d.Status = models.StatusDelivered
	_, err := BuildReturnNotice(d, nil, "")
	assert.ErrorIs(t, err, ErrNotReturned)

	_, err = BuildReturnNotice(returned(), nil, "")
	assert.True(t, errors.Is(err, ErrNoSellerMapping))

	_, err = BuildReturnNotice(returned(), []models.ClientMapping{{CustomerID: "MAT-5", SellerName: "Carla"}}, "")
	assert.ErrorIs(t, err, ErrNoSellerPhone)
}

func TestReturnMessage_Defaults(t *testing.T) {
	d := returned()
	d.ReturnReason = ""
	d.ReturnNotes = "portão fechado"
	msg := ReturnMessage(d)
	assert.Contains(t, msg, "Não informado")
	assert.Contains(t, msg, "portão fechado")
}
