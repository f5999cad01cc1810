// Package cache stores computed inspection/maintenance schedules in redis
// so repeated menu queries within a session do not recompute or rescan the
// fleet. A cache miss is never an error; callers fall back to computing.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisClient "github.com/redis/go-redis/v9"

	"fleet-rental/pkg/redis"
)

// VehicleSchedule is the cached projection of a vehicle's upcoming dates.
type VehicleSchedule struct {
	Plate           string    `json:"plate"`
	NextInspection  time.Time `json:"nextInspection"`
	NextMaintenance time.Time `json:"nextMaintenance"`
	ComputedAt      time.Time `json:"computedAt"`
}

// ScheduleCache is a redis-backed cache keyed by plate.
type ScheduleCache struct {
	client *redis.Client
	config CacheConfig
	ctx    context.Context
}

func NewScheduleCache(client *redis.Client, config CacheConfig) *ScheduleCache {
	return &ScheduleCache{
		client: client,
		config: config,
		ctx:    context.Background(),
	}
}

// Get retrieves a cached schedule. A miss returns (nil, nil).
func (c *ScheduleCache) Get(plate string) (*VehicleSchedule, error) {
	key := c.buildKey(plate)

	data, err := c.client.GetClient().Get(c.ctx, key).Result()
	if err != nil {
		if err == redisClient.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule from cache: %w", err)
	}

	var sched VehicleSchedule
	if err := json.Unmarshal([]byte(data), &sched); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule data: %w", err)
	}
	return &sched, nil
}

// Set stores a schedule with the configured TTL.
func (c *ScheduleCache) Set(plate string, sched *VehicleSchedule) error {
	key := c.buildKey(plate)

	data, err := json.Marshal(sched)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule data: %w", err)
	}
	if err := c.client.GetClient().Set(c.ctx, key, data, c.config.ScheduleTTL).Err(); err != nil {
		return fmt.Errorf("failed to set schedule in cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached schedule for one plate. Called whenever the
// vehicle's matriculation date or category changes, or it leaves the fleet.
func (c *ScheduleCache) Invalidate(plate string) error {
	return c.client.GetClient().Del(c.ctx, c.buildKey(plate)).Err()
}

// InvalidateAll drops every cached schedule.
func (c *ScheduleCache) InvalidateAll() error {
	iter := c.client.GetClient().Scan(c.ctx, 0, c.config.KeyPrefix+"schedule:*", 0).Iterator()
	for iter.Next(c.ctx) {
		if err := c.client.GetClient().Del(c.ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *ScheduleCache) buildKey(plate string) string {
	return fmt.Sprintf("%sschedule:%s", c.config.KeyPrefix, plate)
}
