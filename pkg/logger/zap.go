// Package logger 将 zap 桥接为 kratos 的 log.Logger，
// 业务代码统一通过 kratos 的 Helper 打日志，底层输出走 zap。
package logger

import (
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger kratos log.Logger 的 zap 实现
type ZapLogger struct {
	zap *zap.Logger
}

// NewZapLogger 创建 zap 日志器。level 取 debug/info/warn/error，
// 非法值回落到 info。
func NewZapLogger(level string) (*ZapLogger, func()) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		zapLevel,
	)

	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(3))
	cleanup := func() {
		_ = zl.Sync()
	}
	return &ZapLogger{zap: zl}, cleanup
}

// Log 实现 kratos log.Logger，键值对转为 zap 字段
func (l *ZapLogger) Log(level log.Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 {
		return nil
	}
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "")
	}

	var msg string
	fields := make([]zap.Field, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if key == log.DefaultMessageKey {
			msg = fmt.Sprint(keyvals[i+1])
			continue
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}

	switch level {
	case log.LevelDebug:
		l.zap.Debug(msg, fields...)
	case log.LevelInfo:
		l.zap.Info(msg, fields...)
	case log.LevelWarn:
		l.zap.Warn(msg, fields...)
	case log.LevelError:
		l.zap.Error(msg, fields...)
	case log.LevelFatal:
		l.zap.Fatal(msg, fields...)
	default:
		l.zap.Info(msg, fields...)
	}
	return nil
}
