package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	require.Equal(t, Key("a", "b"), Key("a", "b"))
	require.NotEqual(t, Key("ab", ""), Key("a", "b"))
	require.Len(t, Key("x"), 64)
}

func TestTTL_Expiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTL[[]string](time.Minute).WithClock(func() time.Time { return now })

	_, ok := c.Get("k")
	require.False(t, ok)

	c.Put("k", []string{"v"})
	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, []string{"v"}, got)

	now = now.Add(59 * time.Second)
	_, ok = c.Get("k")
	require.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestTTL_Disabled(t *testing.T) {
	c := NewTTL[int](0)
	c.Put("k", 1)
	_, ok := c.Get("k")
	require.False(t, ok)
}
