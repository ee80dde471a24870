package cart_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pamlee/go-storefront/internal/cart"
	"github.com/pamlee/go-storefront/internal/store"
)

func TestAddIncrementsExistingItem(t *testing.T) {
	ctx := context.Background()
	c := cart.New(store.NewMem())

	require.NoError(t, c.Add(ctx, "1", "Chocolate Cake", 25000, "cake.jpg"))
	require.NoError(t, c.Add(ctx, "1", "Chocolate Cake", 25000, "cake.jpg"))

	items, err := c.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Chocolate Cake", items[0].Name)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	c := cart.New(store.NewMem())

	require.NoError(t, c.Add(ctx, "1", "Cake", 25000, ""))
	require.NoError(t, c.Add(ctx, "2", "Bread", 3500, ""))
	require.NoError(t, c.Remove(ctx, "1"))

	items, err := c.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID)

	// removing an absent id is a no-op
	require.NoError(t, c.Remove(ctx, "nope"))
}

func TestSetQuantityRemovesAtZeroOrBelow(t *testing.T) {
	ctx := context.Background()
	c := cart.New(store.NewMem())

	require.NoError(t, c.Add(ctx, "1", "Cake", 25000, ""))
	require.NoError(t, c.SetQuantity(ctx, "1", 2)) // qty 3
	require.NoError(t, c.SetQuantity(ctx, "1", -3))

	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, c.Add(ctx, "2", "Bread", 3500, ""))
	require.NoError(t, c.SetQuantity(ctx, "2", -5))
	items, err = c.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

// Whatever sequence of mutations runs, no item ever sits in the cart
// with a non-positive quantity.
func TestQuantityAlwaysPositive(t *testing.T) {
	ctx := context.Background()
	c := cart.New(store.NewMem())
	ids := []string{"1", "2", "3"}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(3) {
		case 0:
			require.NoError(t, c.Add(ctx, id, "p"+id, 1000, ""))
		case 1:
			require.NoError(t, c.Remove(ctx, id))
		case 2:
			require.NoError(t, c.SetQuantity(ctx, id, rng.Intn(7)-3))
		}

		items, err := c.Items(ctx)
		require.NoError(t, err)
		for _, it := range items {
			require.Greater(t, it.Quantity, 0, "item %s after op %d", it.ID, i)
		}
	}
}

func TestTotal(t *testing.T) {
	ctx := context.Background()
	c := cart.New(store.NewMem())

	require.NoError(t, c.Add(ctx, "a", "Item A", 10000, ""))
	require.NoError(t, c.SetQuantity(ctx, "a", 1)) // qty 2
	require.NoError(t, c.Add(ctx, "b", "Item B", 5000, ""))

	total, err := c.TotalCents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25000, total)
}

func TestCorruptCartReadsEmpty(t *testing.T) {
	ctx := context.Background()
	st := store.NewMem()
	require.NoError(t, st.Set(ctx, store.KeyCart, "{not json"))

	c := cart.New(st)
	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// the cart stays usable after the reset
	require.NoError(t, c.Add(ctx, "1", "Cake", 25000, ""))
	items, err = c.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestChangeHookFiresOnMutation(t *testing.T) {
	ctx := context.Background()
	var snapshots [][]cart.Item
	c := cart.New(store.NewMem(), cart.WithChangeHook(func(items []cart.Item) {
		snapshots = append(snapshots, items)
	}))

	require.NoError(t, c.Add(ctx, "1", "Cake", 25000, ""))
	require.NoError(t, c.Remove(ctx, "1"))

	require.Len(t, snapshots, 2)
	assert.Len(t, snapshots[0], 1)
	assert.Empty(t, snapshots[1])
}
