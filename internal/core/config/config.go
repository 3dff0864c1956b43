// Package config reads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Addr     string
	LogLevel string

	DatasetPath   string
	DatasetDriver string // csv | sqlite
	DatasetTable  string // sqlite only

	SessionMax  int
	DefaultMode string

	ClusterRes int
	HeatRadius int
	HeatBlur   int

	MetricsEnabled bool
	MetricsAddr    string
	MetricsPath    string
}

func FromEnv() Config {
	res := getint("CLUSTER_RES", 6)
	if res < 0 {
		res = 0
	}
	if res > 15 {
		res = 15
	}

	return Config{
		Addr:     getenv("ADDR", ":8090"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DatasetPath:   getenv("DATASET_PATH", "collision.csv"),
		DatasetDriver: strings.ToLower(getenv("DATASET_DRIVER", "csv")),
		DatasetTable:  getenv("DATASET_TABLE", "collisions"),

		SessionMax:  getint("SESSION_MAX", 1024),
		DefaultMode: getenv("DEFAULT_MODE", "Cluster"),

		ClusterRes: res,
		HeatRadius: getint("HEAT_RADIUS", 8),
		HeatBlur:   getint("HEAT_BLUR", 12),

		MetricsEnabled: getbool("METRICS_ENABLED", false),
		MetricsAddr:    getenv("METRICS_ADDR", ":9090"),
		MetricsPath:    getenv("METRICS_PATH", "/metrics"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}
