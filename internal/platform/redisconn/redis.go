package redisconn

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/riahunter/backend/pkg/config"
)

// NewClient returns a redis client, or nil when no address is configured.
// Consumers must treat a nil client as "feature disabled".
func NewClient(l *zap.SugaredLogger, cfg *cfgpkg.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		l.Infow("redis not configured, rate limiting disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	l.Infow("redis client created", "addr", cfg.Redis.Addr)
	return client
}

func registerClose(lc fx.Lifecycle, l *zap.SugaredLogger, client *redis.Client) {
	if client == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			l.Infow("closing redis client")
			return client.Close()
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewClient),
	fx.Invoke(registerClose),
)
