package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"problem-tracker/internal/config"
)

var (
	Logger      = zap.NewNop()         // 全局 Logger 实例，初始化前为 Nop
	AtomicLevel = zap.NewAtomicLevel() // 全局共享日志级别
)

// InitLogger 按配置初始化：控制台 + lumberjack 轮转文件，均为 JSON 编码
func InitLogger(cfg config.LogConfig) {
	// 解析日志级别（安全处理无效值）
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zap.InfoLevel
	}
	AtomicLevel = zap.NewAtomicLevelAt(level)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006/01/02 - 15:04:05"))
		},
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(os.Stdout),
			AtomicLevel,
		),
	}

	// 日志目录创建失败时只输出到控制台
	if err := os.MkdirAll(filepath.Dir(cfg.Path), os.ModePerm); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
	} else {
		lumberjackLogger := &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSize,    // 单位：MB
			MaxBackups: cfg.MaxBackups, // 保留多少个备份文件
			MaxAge:     cfg.MaxAge,     // 保留多少天
			Compress:   cfg.Compress,
			LocalTime:  true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(lumberjackLogger),
			AtomicLevel,
		))
	}

	UseLogger(zap.New(zapcore.NewTee(cores...), zap.AddCaller()))
	Logger.Info("InitLogger finished", zap.String("level", level.String()), zap.String("path", cfg.Path))
}

// UseLogger 替换全局 logger（测试中传入 zap.NewNop 或 zaptest logger）
func UseLogger(l *zap.Logger) {
	Logger = l
	zap.ReplaceGlobals(l)
}
