package app

import (
	"github.com/yungbote/forumcore/internal/data/db"
	"github.com/yungbote/forumcore/internal/observability"
	"github.com/yungbote/forumcore/internal/platform/envutil"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

type Config struct {
	DB   db.Config
	Otel observability.OtelConfig

	// MigrateOnStart runs the schema migration inside New.
	MigrateOnStart bool
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		DB:             db.LoadConfig(log),
		Otel:           observability.LoadOtelConfig(log),
		MigrateOnStart: envutil.Bool("DB_MIGRATE_ON_START", false, log),
	}
}

// loggerOptions reads the logger settings straight from the environment since
// no logger exists yet to report the lookups.
func loggerOptions() logger.Options {
	return logger.Options{
		Mode:       envutil.String("LOG_MODE", "development", nil),
		Level:      envutil.String("LOG_LEVEL", "", nil),
		File:       envutil.String("LOG_FILE", "", nil),
		MaxSizeMB:  envutil.Int("LOG_FILE_MAX_SIZE_MB", 100, nil),
		MaxBackups: envutil.Int("LOG_FILE_MAX_BACKUPS", 5, nil),
		MaxAgeDays: envutil.Int("LOG_FILE_MAX_AGE_DAYS", 28, nil),
	}
}
