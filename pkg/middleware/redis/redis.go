package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/extra/rediscmd/v9"
	r "github.com/redis/go-redis/v9"

	"github.com/scienceol/chemlookup/pkg/middleware/logger"
)

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

var redisClient *r.Client

// InitRedis connects the shared client. Callers decide whether a failure
// is fatal; the cache falls back to memory.
func InitRedis(ctx context.Context, conf *Redis) error {
	client, err := initRedis(ctx, conf)
	if err != nil {
		return err
	}
	redisClient = client
	return nil
}

func initRedis(ctx context.Context, conf *Redis) (*r.Client, error) {
	client := r.NewClient(&r.Options{
		Addr:         fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password:     conf.Password,
		DB:           conf.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	client.AddHook(logHook{})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func CloseRedis(_ context.Context) {
	if redisClient != nil {
		redisClient.Close()
		redisClient = nil
	}
}

// GetClient 获取Redis客户端实例
func GetClient() *r.Client {
	return redisClient
}

// logHook writes every command at debug level.
type logHook struct{}

func (logHook) DialHook(next r.DialHook) r.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (logHook) ProcessHook(next r.ProcessHook) r.ProcessHook {
	return func(ctx context.Context, cmd r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		if err != nil && err != r.Nil {
			logger.Warnf(ctx, "redis %s err: %v", rediscmd.CmdString(cmd), err)
			return err
		}
		logger.Debugf(ctx, "redis %s %s", rediscmd.CmdString(cmd), time.Since(start))
		return err
	}
}

func (logHook) ProcessPipelineHook(next r.ProcessPipelineHook) r.ProcessPipelineHook {
	return func(ctx context.Context, cmds []r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		summary, _ := rediscmd.CmdsString(cmds)
		logger.Debugf(ctx, "redis pipeline %s %s", summary, time.Since(start))
		return err
	}
}
