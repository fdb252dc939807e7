package logger

import (
	"context"
	"os"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	// Path empty means stderr.
	Path       string
	LogLevel   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	ServiceEnv ServiceEnv
}

var (
	logger = otelzap.New(zap.NewNop())
	rotate *lumberjack.Logger
)

func Init(conf *LogConfig) {
	level, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder

	var core zapcore.Core
	if conf.Path == "" {
		encConf.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encConf), zapcore.Lock(os.Stderr), level)
	} else {
		rotate = &lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    orDefault(conf.MaxSizeMB, 100),
			MaxBackups: orDefault(conf.MaxBackups, 5),
			MaxAge:     orDefault(conf.MaxAgeDays, 30),
			Compress:   true,
		}
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encConf), zapcore.AddSync(rotate), level)
	}

	z := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("platform", conf.ServiceEnv.Platform),
			zap.String("service", conf.ServiceEnv.Service),
			zap.String("env", conf.ServiceEnv.Env),
		),
	)

	logger = otelzap.New(z, otelzap.WithMinLevel(level))
}

func Close() {
	_ = logger.Sync()
	if rotate != nil {
		_ = rotate.Close()
		rotate = nil
	}
}

func orDefault(v, d int) int {
	if v <= 0 {
		return d
	}
	return v
}

func Debugf(ctx context.Context, format string, args ...any) {
	logger.Sugar().Ctx(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	logger.Sugar().Ctx(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	logger.Sugar().Ctx(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	logger.Sugar().Ctx(ctx).Errorf(format, args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	logger.Sugar().Ctx(ctx).Fatalf(format, args...)
}
