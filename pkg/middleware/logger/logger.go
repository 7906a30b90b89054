package logger

import (
	"context"
	"os"
	"sync"

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
	Path       string
	LogLevel   string
	ServiceEnv ServiceEnv
}

var (
	mu     sync.RWMutex
	sugar  = otelzap.New(zap.NewNop()).Sugar()
	rotate *lumberjack.Logger
)

func Init(conf *LogConfig) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(conf.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	encConf := zap.NewProductionEncoderConfig()
	encConf.TimeKey = "time"
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encConf)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}
	var w *lumberjack.Logger
	if conf.Path != "" {
		w = &lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(w), level))
	}

	z := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("platform", conf.ServiceEnv.Platform),
			zap.String("service", conf.ServiceEnv.Service),
			zap.String("env", conf.ServiceEnv.Env),
		),
	)

	mu.Lock()
	defer mu.Unlock()
	sugar = otelzap.New(z,
		otelzap.WithMinLevel(level),
	).Sugar()
	rotate = w
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	_ = sugar.Sync()
	if rotate != nil {
		_ = rotate.Close()
		rotate = nil
	}
}

func get(ctx context.Context) otelzap.SugaredLoggerWithCtx {
	mu.RLock()
	defer mu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}
	return sugar.Ctx(ctx)
}

func Debugf(ctx context.Context, format string, args ...any) {
	get(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	get(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	get(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	get(ctx).Errorf(format, args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	get(ctx).Fatalf(format, args...)
}
