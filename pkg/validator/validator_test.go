package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemPayload struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=500"`
	Price     int64  `json:"price" validate:"gte=0"`
}

func TestValidate_Valid(t *testing.T) {
	p := addItemPayload{ProductID: "prod-1", Name: "Baby Bottle", Price: 1500}
	assert.NoError(t, Validate(p))
}

func TestValidate_MissingRequired(t *testing.T) {
	p := addItemPayload{Name: "Baby Bottle"}

	err := Validate(p)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["ProductID"])
}

func TestValidate_NegativePrice(t *testing.T) {
	p := addItemPayload{ProductID: "prod-1", Name: "x", Price: -1}

	err := Validate(p)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Price"], "greater than or equal")
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"product_id":"p1","name":"Bag","price":2000}`))

	var p addItemPayload
	require.NoError(t, DecodeAndValidate(r, &p))
	assert.Equal(t, "p1", p.ProductID)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{{`))

	var p addItemPayload
	assert.Error(t, DecodeAndValidate(r, &p))
}
