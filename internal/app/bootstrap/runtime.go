package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/creativeiyke/agency-platform/internal/config"
	"github.com/creativeiyke/agency-platform/pkg/logging"
)

const (
	redisClientName  = "agency-platform"
	redisPingTimeout = 3 * time.Second
)

// BuildRedisClient connects to the Redis instance that backs the lead outbox.
// It returns nil when REDIS_ADDR is unset, or when verify is set and the
// server does not answer a ping within redisPingTimeout.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil {
		return nil
	}
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	client := redis.NewClient(outboxRedisOptions(addr, cfg))
	if !verify {
		return client
	}

	if ctx == nil {
		ctx = context.Background()
	}
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("lead outbox redis unreachable", "addr", addr, "tls", cfg.RedisTLS, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("lead outbox redis connected", "addr", addr, "tls", cfg.RedisTLS)
	return client
}

func outboxRedisOptions(addr string, cfg *appconfig.Config) *redis.Options {
	opts := &redis.Options{
		Addr:       addr,
		Password:   cfg.RedisPassword,
		ClientName: redisClientName,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}
