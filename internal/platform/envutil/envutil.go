package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/forumcore/internal/platform/logger"
)

func String(name, def string, log *logger.Logger) string {
	v, ok := lookup(name)
	if !ok {
		debug(log, name, "Environment variable not found, using default", "default", def)
		return def
	}
	debug(log, name, "Environment variable found, using environment")
	return v
}

func Int(name string, def int, log *logger.Logger) int {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		debug(log, name, "Environment variable could not be parsed as int, using default", "provided", v, "default", def, "error", err)
		return def
	}
	return i
}

func Bool(name string, def bool, log *logger.Logger) bool {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	debug(log, name, "Environment variable could not be parsed as bool, using default", "provided", v, "default", def)
	return def
}

func Float(name string, def float64, log *logger.Logger) float64 {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		debug(log, name, "Environment variable could not be parsed as float, using default", "provided", v, "default", def, "error", err)
		return def
	}
	return f
}

// Seconds reads an integer number of seconds.
func Seconds(name string, def time.Duration, log *logger.Logger) time.Duration {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		debug(log, name, "Environment variable is not a non-negative integer, using default", "provided", v, "default", def)
		return def
	}
	return time.Duration(i) * time.Second
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}

func debug(log *logger.Logger, name, msg string, kv ...interface{}) {
	if log == nil {
		return
	}
	log.With("env_var", name).Debug(msg, kv...)
}
