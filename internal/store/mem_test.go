package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pamlee/go-storefront/internal/store"
)

func TestMemAbsentKey(t *testing.T) {
	ctx := context.Background()
	st := store.NewMem()

	_, ok, err := st.Get(ctx, "nothing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemSetOverwrites(t *testing.T) {
	ctx := context.Background()
	st := store.NewMem()

	require.NoError(t, st.Set(ctx, "k", "v1"))
	require.NoError(t, st.Set(ctx, "k", "v2"))

	v, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", v)
}
