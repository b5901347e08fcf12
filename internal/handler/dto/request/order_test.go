//go:build unit

package request_test

import (
	"encoding/json"
	"testing"

	reqdto "washday/internal/handler/dto/request"
	"washday/internal/pkg/ptr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItemRequest_ToDomain(t *testing.T) {
	tests := []struct {
		name    string
		qty     *int
		wantQty int
	}{
		{"missing quantity defaults to one", nil, 1},
		{"zero quantity defaults to one", ptr.Of(0), 1},
		{"explicit quantity", ptr.Of(4), 4},
		{"negative quantity is passed through for validation", ptr.Of(-2), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := reqdto.CartItemRequest{ID: "shirt", Quantity: tt.qty}
			assert.Equal(t, tt.wantQty, item.ToDomain().Quantity)
		})
	}
}

func TestCreateOrderRequest_Decode(t *testing.T) {
	body := `{"items":[{"id":"duvet","price":"400.50","processingTimeHours":24},{"id":"shirt","price":150,"quantity":3}],"requestedHours":12}`

	var req reqdto.CreateOrderRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	items := req.CartItems()
	require.Len(t, items, 2)
	assert.Equal(t, "400.5", items[0].Price.String())
	assert.Equal(t, 1, items[0].Quantity)
	require.NotNil(t, items[0].ProcessingTimeHours)
	assert.Equal(t, 24.0, *items[0].ProcessingTimeHours)
	assert.Nil(t, items[1].ProcessingTimeHours)
	assert.Equal(t, 3, items[1].Quantity)
	assert.Equal(t, 12.0, req.RequestedHours)
}
