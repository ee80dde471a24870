package orders_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pamlee/go-storefront/internal/orders"
)

func TestGenerateTrackerIDFormat(t *testing.T) {
	id := orders.GenerateTrackerID()
	require.True(t, strings.HasPrefix(id, "PL-"), "got %s", id)
	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 8)
	assert.Equal(t, strings.ToUpper(id), id)
}

func TestGenerateTrackerIDDistinct(t *testing.T) {
	const n = 10000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		seen[orders.GenerateTrackerID()] = true
	}
	assert.Len(t, seen, n)
}
