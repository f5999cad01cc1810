package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"fleet-rental/internal/models"
	"fleet-rental/internal/registry"
	"fleet-rental/internal/schedule"
	"fleet-rental/pkg/cache"
)

// ScheduleService answers "when is this vehicle due" questions, layering
// the redis schedule cache over the pure policy computations. The cache is
// optional; without it every call computes directly.
type ScheduleService struct {
	reg           *registry.Registry
	scheduleCache *cache.ScheduleCache
	log           *logrus.Logger
}

func NewScheduleService(reg *registry.Registry) *ScheduleService {
	return &ScheduleService{reg: reg, log: logrus.StandardLogger()}
}

// SetScheduleCache allows setting the cache for schedule lookups.
func (s *ScheduleService) SetScheduleCache(c *cache.ScheduleCache) {
	s.scheduleCache = c
}

// VehicleSchedule returns the next inspection and maintenance dates for one
// vehicle, from cache when possible.
func (s *ScheduleService) VehicleSchedule(plate string, now time.Time) (*cache.VehicleSchedule, error) {
	v, err := s.reg.Vehicle(plate)
	if err != nil {
		return nil, err
	}

	if s.scheduleCache != nil {
		cached, err := s.scheduleCache.Get(v.Plate)
		if err != nil {
			s.log.WithError(err).Warn("schedule cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	sched := &cache.VehicleSchedule{
		Plate:           v.Plate,
		NextInspection:  schedule.NextInspection(v.Category, v.MatriculationDate, now),
		NextMaintenance: schedule.NextMaintenance(v.Category, v.MatriculationDate, now),
		ComputedAt:      now,
	}

	if s.scheduleCache != nil {
		if err := s.scheduleCache.Set(v.Plate, sched); err != nil {
			s.log.WithError(err).Warn("schedule cache write failed")
		}
	}
	return sched, nil
}

// Invalidate drops any cached schedule for the plate. Call after updating
// or removing a vehicle.
func (s *ScheduleService) Invalidate(plate string) {
	if s.scheduleCache == nil {
		return
	}
	if err := s.scheduleCache.Invalidate(plate); err != nil {
		s.log.WithError(err).Warn("schedule cache invalidation failed")
	}
}

// UpcomingInspections lists vehicles due inspection within the threshold.
func (s *ScheduleService) UpcomingInspections(now time.Time, withinDays int) []registry.DueVehicle {
	return s.reg.VehiclesDueInspection(now, withinDays)
}

// UpcomingMaintenance lists vehicles due maintenance within the threshold.
func (s *ScheduleService) UpcomingMaintenance(now time.Time, withinDays int) []registry.DueVehicle {
	return s.reg.VehiclesDueMaintenance(now, withinDays)
}

// MaintenanceDueByDistance reports whether distance alone puts the vehicle
// over its maintenance threshold.
func (s *ScheduleService) MaintenanceDueByDistance(v *models.Vehicle, kmSinceLastMaintenance int) bool {
	return schedule.MaintenanceDueByDistance(v.Category, kmSinceLastMaintenance)
}
