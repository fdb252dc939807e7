package lookup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scienceol/chemlookup/internal/config"
	"github.com/scienceol/chemlookup/pkg/middleware/db"
	"github.com/scienceol/chemlookup/pkg/middleware/logger"
	"github.com/scienceol/chemlookup/pkg/middleware/redis"
	"github.com/scienceol/chemlookup/pkg/middleware/trace"
)

// InitBackends starts whatever the config asks for: the trace exporter,
// redis when it backs the cache and postgres when history is stored.
// A redis that cannot be reached degrades the cache to memory.
func InitBackends(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	conf := config.Global()

	trace.InitTrace(ctx, &trace.InitConfig{
		ServiceName:     fmt.Sprintf("%s-%s", conf.Server.Service, conf.Server.Platform),
		Version:         conf.Trace.Version,
		Exporter:        conf.Trace.Exporter,
		TraceEndpoint:   conf.Trace.TraceEndpoint,
		MetricEndpoint:  conf.Trace.MetricEndpoint,
		TraceProject:    conf.Trace.TraceProject,
		TraceInstanceID: conf.Trace.TraceInstanceID,
		TraceAK:         conf.Trace.TraceAK,
		TraceSK:         conf.Trace.TraceSK,
	})

	if conf.Cache.Backend == config.CacheRedis {
		if err := redis.InitRedis(ctx, &redis.Redis{
			Host:     conf.Redis.Host,
			Port:     conf.Redis.Port,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		}); err != nil {
			logger.Warnf(ctx, "redis unavailable, falling back to memory cache: %+v", err)
		}
	}

	if conf.Store.Enable {
		InitPostgres(cmd, nil)
	}
	return nil
}

func InitPostgres(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	db.InitPostgres(cmd.Context(), &db.Config{
		Host:    conf.Database.Host,
		Port:    conf.Database.Port,
		User:    conf.Database.User,
		PW:      conf.Database.Password,
		DBName:  conf.Database.Name,
		LogConf: db.LogConf{Level: conf.Log.LogLevel},
	})
	return nil
}

var closeBackends = CloseBackends

// WithBackends wraps a RunE so the backends are closed even when it fails;
// cobra skips PostRunE after a RunE error.
func WithBackends(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer closeBackends(cmd, args)
		return run(cmd, args)
	}
}

func CloseBackends(cmd *cobra.Command, _ []string) error {
	redis.CloseRedis(cmd.Context())
	db.ClosePostgres(cmd.Context())
	trace.CloseTrace()
	return nil
}
