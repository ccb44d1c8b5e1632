package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives cache time without sleeping.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestMemory() (*Memory, *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory()
	m.now = clock.Now
	return m, clock
}

func TestMemory_SetGet(t *testing.T) {
	m, _ := newTestMemory()

	m.Set("studios", []string{"harmony"}, time.Minute)

	value := m.Get("studios")
	require.NotNil(t, value)
	assert.Equal(t, []string{"harmony"}, value)
}

func TestMemory_GetMissing(t *testing.T) {
	m, _ := newTestMemory()

	assert.Nil(t, m.Get("absent"))
}

func TestMemory_Expiry(t *testing.T) {
	m, clock := newTestMemory()

	m.Set("k", "v", time.Second)

	assert.Equal(t, "v", m.Get("k"))

	clock.Advance(1100 * time.Millisecond)
	assert.Nil(t, m.Get("k"))

	// Lazy eviction removed the entry; a later cleanup is a no-op for it.
	assert.Equal(t, 0, m.Len())
	m.Cleanup()
	assert.Equal(t, 0, m.Len())
}

func TestMemory_ExpiryIsStrictFromInsert(t *testing.T) {
	m, clock := newTestMemory()

	m.Set("k", "v", 2*time.Second)

	// Reads must not refresh the TTL.
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, "v", m.Get("k"))
	clock.Advance(600 * time.Millisecond)
	assert.Nil(t, m.Get("k"))
}

func TestMemory_SetOverwrites(t *testing.T) {
	m, clock := newTestMemory()

	m.Set("k", "old", time.Second)
	clock.Advance(900 * time.Millisecond)
	m.Set("k", "new", time.Second)

	// The overwrite resets the insertion timestamp.
	clock.Advance(900 * time.Millisecond)
	assert.Equal(t, "new", m.Get("k"))
}

func TestMemory_DefaultTTL(t *testing.T) {
	m, clock := newTestMemory()

	m.Set("k", "v", 0)

	clock.Advance(DefaultTTL - time.Second)
	assert.Equal(t, "v", m.Get("k"))
	clock.Advance(2 * time.Second)
	assert.Nil(t, m.Get("k"))
}

func TestMemory_Delete(t *testing.T) {
	m, _ := newTestMemory()

	m.Set("k", "v", time.Minute)

	assert.True(t, m.Delete("k"))
	assert.False(t, m.Delete("k"))
	assert.Nil(t, m.Get("k"))
}

func TestMemory_Clear(t *testing.T) {
	m, _ := newTestMemory()

	m.Set("a", 1, time.Minute)
	m.Set("b", 2, time.Minute)

	m.Clear()

	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Get("a"))
}

func TestMemory_CleanupEvictsOnlyExpired(t *testing.T) {
	m, clock := newTestMemory()

	m.Set("stale", "v", time.Second)
	m.Set("fresh", "v", time.Hour)

	clock.Advance(2 * time.Second)
	m.Cleanup()

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "v", m.Get("fresh"))
}
