package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	MongoURI    string
	MongoDB     string
	Redis       RedisConfig
	DueSoonDays int
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. A missing .env file is fine; a missing MONGO_URI is not.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		logrus.Fatal("MONGO_URI environment variable is not set")
	}

	return &Config{
		MongoURI:    mongoURI,
		MongoDB:     getEnv("MONGO_DB", "fleet_rental"),
		DueSoonDays: getEnvInt("DUE_SOON_DAYS", 30),
		Redis: RedisConfig{
			Addr:         os.Getenv("REDIS_ADDR"), // empty disables the schedule cache
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           getEnvInt("REDIS_DB", 0),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).WithError(err).Warn("invalid integer in environment, using default")
		return fallback
	}
	return n
}
