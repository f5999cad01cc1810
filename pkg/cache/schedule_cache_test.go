package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-rental/internal/config"
	"fleet-rental/pkg/redis"
)

func newTestCache(t *testing.T) (*ScheduleCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := DefaultCacheConfig()
	cfg.KeyPrefix = "test:"
	return NewScheduleCache(client, cfg), mr
}

func testSchedule(plate string) *VehicleSchedule {
	return &VehicleSchedule{
		Plate:           plate,
		NextInspection:  time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC),
		NextMaintenance: time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC),
		ComputedAt:      time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestScheduleCache(t *testing.T) {
	c, _ := newTestCache(t)
	sched := testSchedule("1234ABC")

	t.Run("MissReturnsNil", func(t *testing.T) {
		got, err := c.Get("1234ABC")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, c.Set("1234ABC", sched))

		got, err := c.Get("1234ABC")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, sched.Plate, got.Plate)
		assert.True(t, sched.NextInspection.Equal(got.NextInspection))
		assert.True(t, sched.NextMaintenance.Equal(got.NextMaintenance))
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, c.Set("1234ABC", sched))
		require.NoError(t, c.Invalidate("1234ABC"))

		got, err := c.Get("1234ABC")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestScheduleCacheTTL(t *testing.T) {
	c, mr := newTestCache(t)
	c.config.ScheduleTTL = 100 * time.Millisecond

	require.NoError(t, c.Set("1234ABC", testSchedule("1234ABC")))

	got, err := c.Get("1234ABC")
	require.NoError(t, err)
	require.NotNil(t, got)

	mr.FastForward(200 * time.Millisecond)

	got, err = c.Get("1234ABC")
	assert.NoError(t, err)
	assert.Nil(t, got, "entry expires after the TTL")
}

func TestScheduleCacheInvalidateAll(t *testing.T) {
	c, _ := newTestCache(t)

	require.NoError(t, c.Set("1234ABC", testSchedule("1234ABC")))
	require.NoError(t, c.Set("5678XYZ", testSchedule("5678XYZ")))

	require.NoError(t, c.InvalidateAll())

	for _, plate := range []string{"1234ABC", "5678XYZ"} {
		got, err := c.Get(plate)
		assert.NoError(t, err)
		assert.Nil(t, got)
	}
}
