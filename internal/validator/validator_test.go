package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type entry struct {
	CustomerID   string `json:"customerId" validate:"required"`
	CustomerName string `json:"customerName" validate:"required,min=3"`
	Status       string `json:"status" validate:"omitempty,delivery_status"`
	Manual       string `json:"manualStatus" validate:"op_status"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(entry{CustomerID: "MAT-1", CustomerName: "Mercado"}))

	err := ValidateStruct(entry{CustomerName: "Mercado"})
	assert.EqualError(t, err, "customerId is required")

	err = ValidateStruct(entry{CustomerID: "MAT-1", CustomerName: "Me"})
	assert.EqualError(t, err, "customerName must have at least 3 characters")

	err = ValidateStruct(entry{CustomerID: "MAT-1", CustomerName: "Mercado", Status: "Perdido"})
	assert.EqualError(t, err, `status has an invalid value "Perdido"`)

	assert.NoError(t, ValidateStruct(entry{CustomerID: "MAT-1", CustomerName: "Mercado", Status: "Entregue", Manual: "rota"}))
	assert.Error(t, ValidateStruct(entry{CustomerID: "MAT-1", CustomerName: "Mercado", Manual: "garagem"}))
}
