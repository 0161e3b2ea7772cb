// Package logger exposes a process-wide sugared Zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the global logger for the given environment. "production"
// logs JSON; "test" swallows output entirely; anything else gets the
// human-readable development encoder. Repeated calls are no-ops.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		switch env {
		case "production":
			base, err = zap.NewProduction()
		case "test":
			base = zap.NewNop()
		default:
			base, err = zap.NewDevelopment()
		}

		if err != nil {
			base = zap.NewNop()
		}

		sugar = base.Sugar()
	})
}

// Get returns the global logger, initializing a development one if Init
// was never called.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Sync flushes buffered entries. Deferred from main.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
