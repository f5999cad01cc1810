package services

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-rental/internal/config"
	"fleet-rental/internal/models"
	"fleet-rental/internal/registry"
	"fleet-rental/pkg/cache"
	"fleet-rental/pkg/redis"
)

func newTestService(t *testing.T) (*ScheduleService, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.AddVehicle(&models.Vehicle{
		Plate:             "1234ABC",
		Brand:             "Seat",
		Model:             "Ibiza",
		Category:          models.CategoryLight,
		MatriculationDate: time.Date(2018, time.May, 15, 0, 0, 0, 0, time.UTC),
	}))
	return NewScheduleService(reg), reg
}

func withCache(t *testing.T, s *ScheduleService) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s.SetScheduleCache(cache.NewScheduleCache(client, cache.DefaultCacheConfig()))
}

func TestVehicleScheduleWithoutCache(t *testing.T) {
	s, _ := newTestService(t)
	now := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)

	sched, err := s.VehicleSchedule("1234ABC", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC), sched.NextInspection)
	assert.Equal(t, time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC), sched.NextMaintenance)

	_, err = s.VehicleSchedule("9999ZZZ", now)
	assert.ErrorIs(t, err, registry.ErrVehicleNotFound)
}

func TestVehicleScheduleCaching(t *testing.T) {
	s, reg := newTestService(t)
	withCache(t, s)
	now := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)

	first, err := s.VehicleSchedule("1234ABC", now)
	require.NoError(t, err)

	// Shift the matriculation date without invalidating: the cached
	// projection is still served.
	newDate := time.Date(2019, time.June, 20, 0, 0, 0, 0, time.UTC)
	_, err = reg.UpdateVehicle("1234ABC", registry.UpdateVehicleRequest{MatriculationDate: &newDate})
	require.NoError(t, err)

	cached, err := s.VehicleSchedule("1234ABC", now)
	require.NoError(t, err)
	assert.True(t, first.NextInspection.Equal(cached.NextInspection))

	// After invalidation the schedule is recomputed from the new date.
	s.Invalidate("1234ABC")
	fresh, err := s.VehicleSchedule("1234ABC", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC), fresh.NextInspection)
}

func TestUpcomingListsDelegateToRegistry(t *testing.T) {
	s, _ := newTestService(t)
	now := time.Date(2022, time.May, 1, 0, 0, 0, 0, time.UTC)

	due := s.UpcomingInspections(now, 30)
	require.Len(t, due, 1)
	assert.Equal(t, "1234ABC", due[0].Vehicle.Plate)

	assert.Empty(t, s.UpcomingMaintenance(now, 30))
}

func TestMaintenanceDueByDistance(t *testing.T) {
	s, reg := newTestService(t)
	v, err := reg.Vehicle("1234ABC")
	require.NoError(t, err)

	assert.False(t, s.MaintenanceDueByDistance(v, 5000), "light vehicles have no distance trigger")
}
