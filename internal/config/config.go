package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rmachado/captcha-race/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	DBURL                   string
	DBDisablePreparedBinary bool

	// DayTimezone fixes which wall clock decides when "today" rolls over.
	DayTimezone *time.Location

	ChallengesPerDay int
	BlobBucket       string
	MediaBaseURL     string
	DisplayWidth     int
	DisplayHeight    int

	RaceTickInterval time.Duration
	RaceSessionTTL   time.Duration

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string
	InternalJobToken   string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dayTimezone, err := time.LoadLocation(getEnv("DAY_TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DAY_TIMEZONE: %w", err)
	}

	challengesPerDay, err := getEnvAsInt("CHALLENGES_PER_DAY", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse CHALLENGES_PER_DAY: %w", err)
	}
	if challengesPerDay < 1 {
		return Config{}, fmt.Errorf("CHALLENGES_PER_DAY must be >= 1")
	}

	displayWidth, err := getEnvAsInt("CHALLENGE_DISPLAY_WIDTH", 300)
	if err != nil {
		return Config{}, fmt.Errorf("parse CHALLENGE_DISPLAY_WIDTH: %w", err)
	}
	if displayWidth < 1 {
		return Config{}, fmt.Errorf("CHALLENGE_DISPLAY_WIDTH must be >= 1")
	}
	displayHeight, err := getEnvAsInt("CHALLENGE_DISPLAY_HEIGHT", 120)
	if err != nil {
		return Config{}, fmt.Errorf("parse CHALLENGE_DISPLAY_HEIGHT: %w", err)
	}
	if displayHeight < 1 {
		return Config{}, fmt.Errorf("CHALLENGE_DISPLAY_HEIGHT must be >= 1")
	}

	raceTickInterval, err := time.ParseDuration(getEnv("RACE_TICK_INTERVAL", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RACE_TICK_INTERVAL: %w", err)
	}
	if raceTickInterval <= 0 {
		return Config{}, fmt.Errorf("RACE_TICK_INTERVAL must be > 0")
	}
	raceSessionTTL, err := time.ParseDuration(getEnv("RACE_SESSION_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RACE_SESSION_TTL: %w", err)
	}
	if raceSessionTTL <= 0 {
		return Config{}, fmt.Errorf("RACE_SESSION_TTL must be > 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	blobBucket := strings.TrimSpace(getEnv("BLOB_BUCKET", ""))
	mediaBaseURL := strings.TrimSpace(getEnv("MEDIA_BASE_URL", ""))
	if appEnv == EnvProd {
		if blobBucket == "" {
			return Config{}, fmt.Errorf("BLOB_BUCKET is required when APP_ENV=prod")
		}
		if mediaBaseURL == "" {
			return Config{}, fmt.Errorf("MEDIA_BASE_URL is required when APP_ENV=prod")
		}
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "captcha-race-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		DBURL:                      getEnv("DB_URL", ""),
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		DayTimezone:                dayTimezone,
		ChallengesPerDay:           challengesPerDay,
		BlobBucket:                 blobBucket,
		MediaBaseURL:               mediaBaseURL,
		DisplayWidth:               displayWidth,
		DisplayHeight:              displayHeight,
		RaceTickInterval:           raceTickInterval,
		RaceSessionTTL:             raceSessionTTL,
		CacheEnabled:               cacheEnabled,
		CacheTTL:                   cacheTTL,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
