package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$50.00", FormatCurrency(5000))
	assert.Equal(t, "$0.07", FormatCurrency(7))
	assert.Equal(t, "$1234.56", FormatCurrency(123456))
	assert.Equal(t, "-$3.10", FormatCurrency(-310))
}

func TestActionStateFieldError(t *testing.T) {
	var nilState *ActionState
	assert.False(t, nilState.HasFieldErrors())
	assert.Equal(t, "", nilState.FieldError(FieldAmount))

	state := &ActionState{Errors: map[string][]string{
		FieldAmount: {"Please enter an amount greater than $0."},
	}}
	assert.True(t, state.HasFieldErrors())
	assert.Equal(t, "Please enter an amount greater than $0.", state.FieldError(FieldAmount))
	assert.Equal(t, "", state.FieldError(FieldStatus))
}

func TestNewInvoiceResponse(t *testing.T) {
	inv := &domain.Invoice{ID: "i1", CustomerID: "c1", Amount: 5000, Status: domain.StatusPaid, CategoryID: "k1"}
	resp := NewInvoiceResponse(inv)

	assert.Equal(t, "$50.00", resp.AmountString)
	assert.Equal(t, "paid", resp.Status)
	assert.Equal(t, "", resp.Date)
}

func TestInvoiceFormInputAmountFromJSON(t *testing.T) {
	cases := map[string]FormAmount{
		`{"amount":50.00}`:   "50.00",
		`{"amount":12}`:      "12",
		`{"amount":"19.99"}`: "19.99",
		`{"amount":null}`:    "",
		`{"amount":true}`:    "",
		`{}`:                 "",
	}
	for body, want := range cases {
		var input InvoiceFormInput
		require.NoError(t, json.Unmarshal([]byte(body), &input), body)
		assert.Equal(t, want, input.Amount, body)
	}
}
