package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledStoreAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	s, err := Connect(ctx, Options{})
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	require.NoError(t, s.Set(ctx, "k", map[string]int{"a": 1}))
	var out map[string]int
	assert.False(t, s.Get(ctx, "k", &out))
	assert.Zero(t, s.Version(ctx, "catalog"))
	s.Bump(ctx, "catalog")
	assert.NoError(t, s.Close())
}

func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	var out string
	assert.False(t, s.Enabled())
	assert.False(t, s.Get(context.Background(), "k", &out))
	assert.NoError(t, s.Set(context.Background(), "k", "v"))
}

func TestVersionedKey(t *testing.T) {
	assert.Equal(t, "catalog:v3:category=vehicles", VersionedKey("catalog", 3, "category=vehicles"))
}
