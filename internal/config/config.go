package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config 应用配置
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	AuthEnabled bool
	Timezone    string // IANA name used when a request does not carry one
	TripWorkers int    // Days analyzed in parallel per trip
	RateLimit   int    // Requests per minute per IP, 0 = unlimited
	ParamsFile  string // Optional JSON threshold overrides
}

// Load 加载配置
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", ":8080"),
		DBPath:      getEnv("DB_PATH", "./data/timeline.db"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		AuthEnabled: getBool("AUTH_ENABLED", false),
		Timezone:    getEnv("TIMEZONE", "Europe/London"),
		TripWorkers: getInt("TRIP_WORKERS", 4),
		RateLimit:   getInt("RATE_LIMIT", 120),
		ParamsFile:  os.Getenv("PARAMS_FILE"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[Config] Invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}
