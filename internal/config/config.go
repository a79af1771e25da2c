// Package config loads this server's settings via viper bound to
// environment variables, plus an optional .env file for local development.
// There is no interactive login step to persist — only process-level
// knobs set by whatever launches it.
package config

import (
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the resolved set of environment-driven settings.
type Config struct {
	// DBPathOverride forces every DBHandle to one path; testing only.
	DBPathOverride string
	// ClientProjectRoot is the default clientProjectRoot when a tool call
	// omits it.
	ClientProjectRoot string
	// HTTPStreamPort and Host configure the HTTP transport's bind address.
	HTTPStreamPort int
	Host           string
	// DebugLevel is 0-3, least to most verbose.
	DebugLevel int
}

const (
	keyDBPathOverride    = "DB_PATH_OVERRIDE"
	keyClientProjectRoot = "CLIENT_PROJECT_ROOT"
	keyHTTPStreamPort    = "HTTP_STREAM_PORT"
	keyHost              = "HOST"
	keyDebugLevel        = "DEBUG_LEVEL"
)

// Load reads configuration from the environment (and a .env file in the
// working directory, if present — godotenv.Load silently no-ops when one
// doesn't exist).
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyHTTPStreamPort, 8001)
	v.SetDefault(keyHost, "localhost")
	v.SetDefault(keyDebugLevel, 1)

	return Config{
		DBPathOverride:    v.GetString(keyDBPathOverride),
		ClientProjectRoot: v.GetString(keyClientProjectRoot),
		HTTPStreamPort:    v.GetInt(keyHTTPStreamPort),
		Host:              v.GetString(keyHost),
		DebugLevel:        clampDebugLevel(v.GetInt(keyDebugLevel)),
	}
}

func clampDebugLevel(n int) int {
	if n < 0 {
		return 0
	}
	if n > 3 {
		return 3
	}
	return n
}

// ParseDebugLevel is exposed for the CLI's --debug flag, which takes a
// string the way urfave/cli surfaces flag values.
func ParseDebugLevel(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return clampDebugLevel(n)
}
