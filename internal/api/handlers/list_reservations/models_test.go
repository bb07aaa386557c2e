package list_reservations

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(url.Values{
		"status":      {"paid"},
		"productId":   {"3"},
		"stockUnitId": {"12"},
		"from":        {"2024-06-01"},
		"to":          {"2024-06-30"},
		"limit":       {"20"},
		"offset":      {"40"},
	})
	require.NoError(t, err)

	assert.Equal(t, "paid", *req.Status)
	assert.Equal(t, int64(3), *req.ProductID)
	assert.Equal(t, int64(12), *req.StockUnitID)
	assert.Equal(t, "2024-06-01", req.From.String())
	assert.Equal(t, "2024-06-30", req.To.String())
	assert.Equal(t, uint64(20), req.Limit)
	assert.Equal(t, uint64(40), req.Offset)

	empty, err := ToServiceRequest(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, empty.Status)
	assert.Nil(t, empty.From)

	for _, bad := range []url.Values{
		{"productId": {"x"}},
		{"stockUnitId": {"-1"}},
		{"from": {"01.06.2024"}},
		{"limit": {"0"}},
		{"limit": {"501"}},
		{"offset": {"-3"}},
	} {
		_, err := ToServiceRequest(bad)
		assert.Error(t, err, "%v", bad)
	}
}
