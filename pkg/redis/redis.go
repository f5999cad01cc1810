package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"fleet-rental/internal/config"
)

// Client wraps the go-redis client with a health check suited to a
// single-session process: the cache is optional and the app keeps working
// when redis is down.
type Client struct {
	client *redis.Client
	addr   string
}

type HealthStatus struct {
	IsConnected    bool          `json:"isConnected"`
	LastPing       time.Time     `json:"lastPing"`
	ResponseTime   time.Duration `json:"responseTime"`
	ConnectionInfo string        `json:"connectionInfo"`
	Error          string        `json:"error,omitempty"`
}

// NewClient creates a client from config. It does not fail on an
// unreachable server; callers decide via HealthCheck.
func NewClient(cfg config.RedisConfig) *Client {
	opt := &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Client{client: redis.NewClient(opt), addr: cfg.Addr}
}

// GetClient returns the underlying go-redis client.
func (c *Client) GetClient() *redis.Client {
	return c.client
}

// HealthCheck pings the server and reports detailed status.
func (c *Client) HealthCheck() HealthStatus {
	status := HealthStatus{ConnectionInfo: c.addr}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	err := c.client.Ping(ctx).Err()
	status.ResponseTime = time.Since(start)
	status.LastPing = time.Now()

	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.IsConnected = true
	return status
}

func (c *Client) Close() error {
	return c.client.Close()
}
