package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"fleet-rental/internal/config"
	"fleet-rental/internal/console"
	"fleet-rental/internal/registry"
	"fleet-rental/internal/repository"
	"fleet-rental/internal/services"
	"fleet-rental/pkg/cache"
	"fleet-rental/pkg/database"
	"fleet-rental/pkg/redis"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to MongoDB
	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Disconnect(db.Client())

	store := repository.NewStore(db, logrus.StandardLogger())

	snap, err := store.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load snapshot")
	}
	reg, err := registry.FromSnapshot(snap)
	if err != nil {
		logrus.WithError(err).Fatal("persisted state is inconsistent")
	}

	sched := services.NewScheduleService(reg)

	// The schedule cache is optional: no REDIS_ADDR means direct
	// computation on every query.
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(cfg.Redis)
		defer redisClient.Close()

		health := redisClient.HealthCheck()
		if health.IsConnected {
			logrus.WithField("addr", health.ConnectionInfo).Info("redis connected")
			sched.SetScheduleCache(cache.NewScheduleCache(redisClient, cache.DefaultCacheConfig()))
		} else {
			logrus.WithField("error", health.Error).Warn("redis unavailable, schedule cache disabled")
		}
	}

	ui := console.New(reg, store, sched, os.Stdin, os.Stdout, cfg.DueSoonDays)
	ui.Run()
}
