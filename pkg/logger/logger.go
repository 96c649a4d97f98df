package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 全局日志实例，Init 之前为 Nop，库代码和测试中可以直接调用
var Logger = zap.NewNop()

// Init 初始化日志。format: json|console；output: stdout|file|both
func Init(level, format, output, filePath string) error {
	sink, err := newWriteSyncer(output, filePath)
	if err != nil {
		return err
	}

	core := zapcore.NewCore(newEncoder(format), sink, parseLevel(level))
	Logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	if format == "json" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func newWriteSyncer(output, filePath string) (zapcore.WriteSyncer, error) {
	stdout := zapcore.Lock(os.Stdout)
	if output != "file" && output != "both" {
		return stdout, nil
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	if output == "both" {
		return zapcore.NewMultiWriteSyncer(stdout, zapcore.AddSync(file)), nil
	}
	return zapcore.AddSync(file), nil
}

// parseLevel 无法识别时退回 info
func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// Sync 刷新缓冲区
func Sync() {
	_ = Logger.Sync()
}

func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

// Fatal 记录后退出进程
func Fatal(msg string, fields ...zap.Field) {
	Logger.Fatal(msg, fields...)
}

// With 带固定字段的子 Logger
func With(fields ...zap.Field) *zap.Logger {
	return Logger.With(fields...)
}
