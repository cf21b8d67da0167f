package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	LogMode     string
	StaticDir   string
	DatabaseURL string
	MockSeed    uint64
	LLM         LLMConfig
	Artifact    ArtifactConfig
	Surface     SurfaceCacheConfig
}

type LLMConfig struct {
	APIKey  string
	Model   string
	RPS     float64
	Burst   int
	Retries int
}

// Enabled reports whether generation should call the model at all. Without
// a key every request is served from local templates.
func (c LLMConfig) Enabled() bool { return strings.TrimSpace(c.APIKey) != "" }

type ArtifactConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func (c ArtifactConfig) CanUseS3() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

type SurfaceCacheConfig struct {
	Size int
	TTL  time.Duration
}

// Load reads .env, the command line and the environment, in that order of
// increasing precedence for PORT.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)
	port := fs.String("port", ":8080", "server port")
	static := fs.String("static", "", "directory served at /")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}
	logMode := strings.TrimSpace(os.Getenv("LOG_MODE"))
	if logMode == "" {
		if env == "local" {
			logMode = "development"
		} else {
			logMode = "production"
		}
	}

	return &Config{
		Port:        *port,
		Env:         env,
		LogMode:     logMode,
		StaticDir:   firstNonEmpty(strings.TrimSpace(os.Getenv("STATIC_DIR")), *static),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MockSeed:    uint64(envInt("MOCK_SEED", 1)),
		LLM: LLMConfig{
			APIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:   firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.5-flash"),
			RPS:     envFloat("LLM_RPS", 1),
			Burst:   envInt("LLM_BURST", 2),
			Retries: envInt("LLM_RETRIES", 2),
		},
		Artifact: loadArtifactConfig(),
		Surface: SurfaceCacheConfig{
			Size: envInt("SURFACE_CACHE_SIZE", 256),
			TTL:  envDuration("SURFACE_CACHE_TTL", 10*time.Minute),
		},
	}, nil
}

func loadArtifactConfig() ArtifactConfig {
	return ArtifactConfig{
		Endpoint:  strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT")),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "newsdesk-exports"),
		UseSSL:    envBool("ARTIFACT_S3_USE_SSL", true),
	}
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
