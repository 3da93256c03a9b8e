package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Port     int
	AdminKey string

	StoreBackend string
	DataDir      string
	DatabaseURL  string
	RedisURL     string
	RedisPrefix  string
	R2           R2Config

	AllowedOrigins string
	SweepInterval  time.Duration
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Endpoint        string
	Prefix          string
}

// Load reads .env (if present) and the process environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a getenv-style lookup
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		AdminKey:       getenv("ADMIN_KEY"),
		StoreBackend:   strings.ToLower(strings.TrimSpace(getenv("STORE_BACKEND"))),
		DataDir:        getenv("DATA_DIR"),
		DatabaseURL:    getenv("DATABASE_URL"),
		RedisURL:       getenv("REDIS_URL"),
		RedisPrefix:    getenv("REDIS_PREFIX"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS"),
		R2: R2Config{
			AccountID:       firstNonEmpty(getenv("R2_ACCOUNT_ID"), getenv("CLOUDFLARE_ACCOUNT_ID")),
			AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          getenv("R2_BUCKET_NAME"),
			Endpoint:        getenv("R2_ENDPOINT"),
			Prefix:          getenv("R2_PREFIX"),
		},
	}

	cfg.Port = 3847
	if portStr := getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return Config{}, fmt.Errorf("invalid PORT %q", portStr)
		}
		cfg.Port = port
	}

	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendFile
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.AllowedOrigins == "" {
		cfg.AllowedOrigins = "*"
	} else {
		// Trim spaces from each origin
		origins := strings.Split(cfg.AllowedOrigins, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		cfg.AllowedOrigins = strings.Join(origins, ",")
	}

	cfg.SweepInterval = time.Minute
	if s := getenv("VOTING_SWEEP_INTERVAL"); s != "" {
		if s == "0" {
			cfg.SweepInterval = 0
		} else {
			d, err := time.ParseDuration(s)
			if err != nil || d < 0 {
				return Config{}, fmt.Errorf("invalid VOTING_SWEEP_INTERVAL %q (use a Go duration like 30s)", s)
			}
			cfg.SweepInterval = d
		}
	}

	switch cfg.StoreBackend {
	case BackendFile, BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL environment variable not set")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL environment variable not set")
		}
	case BackendS3:
		if cfg.R2.Bucket == "" {
			return Config{}, fmt.Errorf("R2_BUCKET_NAME environment variable not set")
		}
		if cfg.R2.AccountID == "" && cfg.R2.Endpoint == "" {
			return Config{}, fmt.Errorf("R2_ACCOUNT_ID or R2_ENDPOINT must be set for the s3 backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
