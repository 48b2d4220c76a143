package db

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/forumcore/internal/platform/envutil"
	"github.com/yungbote/forumcore/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string

	// DatabaseURL wins over the discrete POSTGRES_* settings when set.
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string

	SQLitePath string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Driver:          strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres, log)),
		DatabaseURL:     envutil.String("DATABASE_URL", "", log),
		Host:            envutil.String("POSTGRES_HOST", "localhost", log),
		Port:            envutil.String("POSTGRES_PORT", "5432", log),
		User:            envutil.String("POSTGRES_USER", "postgres", log),
		Password:        envutil.String("POSTGRES_PASSWORD", "", nil),
		Name:            envutil.String("POSTGRES_NAME", "forumcore", log),
		SSLMode:         envutil.String("POSTGRES_SSLMODE", "disable", log),
		SQLitePath:      envutil.String("SQLITE_PATH", "forumcore.db", log),
		MaxOpenConns:    envutil.Int("DB_POOL_SIZE", 10, log) + envutil.Int("DB_MAX_OVERFLOW", 20, log),
		MaxIdleConns:    envutil.Int("DB_POOL_SIZE", 10, log),
		ConnMaxLifetime: envutil.Seconds("DB_POOL_RECYCLE", 30*time.Minute, log),
		SlowThreshold:   envutil.Seconds("DB_SLOW_THRESHOLD_SECONDS", time.Second, log),
	}
}

// PostgresDSN builds the connection URL.
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Name,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 {
		return fmt.Errorf("pool sizes must be >= 0")
	}
	return nil
}
