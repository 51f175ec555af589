package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Artifact backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	Port        string
	Env         string
	DatasetPath string
	Artifacts   ArtifactConfig
	Database    DatabaseConfig
	Training    TrainingConfig
	TopK        int
}

type ArtifactConfig struct {
	Backend       string
	Dir           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
}

type DatabaseConfig struct {
	Enabled bool
	URL     string
}

type TrainingConfig struct {
	NoiseFraction float64
	NoiseSeed     int64
	Folds         int
}

// Load reads configuration from the environment, after loading a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	noise, err := getEnvAsFloat("NOISE_FRACTION", 0.03)
	if err != nil {
		return nil, err
	}
	seed, err := getEnvAsInt("NOISE_SEED", 42)
	if err != nil {
		return nil, err
	}
	folds, err := getEnvAsInt("CV_FOLDS", 5)
	if err != nil {
		return nil, err
	}
	topK, err := getEnvAsInt("TOP_K", 5)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "production"),
		DatasetPath: getEnv("DATASET_PATH", "data/Training.csv"),
		Artifacts: ArtifactConfig{
			Backend:       strings.ToLower(getEnv("ARTIFACT_BACKEND", BackendFile)),
			Dir:           getEnv("ARTIFACT_DIR", "artifacts"),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       int(redisDB),
			RedisKey:      getEnv("REDIS_ARTIFACT_KEY", "symptomdx:artifact"),
		},
		Database: DatabaseConfig{
			Enabled: strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
			URL:     os.Getenv("DATABASE_URL"),
		},
		Training: TrainingConfig{
			NoiseFraction: noise,
			NoiseSeed:     seed,
			Folds:         int(folds),
		},
		TopK: int(topK),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	switch c.Artifacts.Backend {
	case BackendFile:
	case BackendRedis:
		if c.Artifacts.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when ARTIFACT_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown ARTIFACT_BACKEND %q", c.Artifacts.Backend)
	}
	if c.Training.NoiseFraction < 0 || c.Training.NoiseFraction >= 1 {
		return fmt.Errorf("NOISE_FRACTION must be in [0,1), got %v", c.Training.NoiseFraction)
	}
	if c.Training.Folds < 2 {
		return fmt.Errorf("CV_FOLDS must be at least 2, got %d", c.Training.Folds)
	}
	if c.TopK < 1 {
		return fmt.Errorf("TOP_K must be positive, got %d", c.TopK)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
