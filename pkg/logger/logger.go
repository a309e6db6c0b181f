package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level       string
	Encoding    string
	Development bool
}

var InfoLogger, FatalLogger *zap.Logger

var (
	serviceName = "default"
)

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

// New собирает zap-логгер из конфига и заодно инициализирует глобальные
// InfoLogger/FatalLogger для пакетных хелперов ниже.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := cfg.Encoding
	if encoding != "console" {
		encoding = "json"
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Development,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zc.Build()
	if err != nil {
		return nil, err
	}

	l = l.With(zap.String("service", serviceName))
	InfoLogger = l
	FatalLogger = l

	return l, nil
}

// fallback - до New (например, конфиг не прочитался) пишем в stderr
// production-логгером, чтобы ошибка старта не потерялась.
func fallback(l *zap.Logger) *zap.Logger {
	if l != nil {
		return l
	}
	fb, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return fb.With(zap.String("service", serviceName))
}

func Info(format string, args ...interface{}) {
	fallback(InfoLogger).Info(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	fallback(InfoLogger).Error(fmt.Sprintf(format, args...))
}

func Fatal(format string, args ...interface{}) {
	fallback(FatalLogger).Fatal(fmt.Sprintf(format, args...))
}
