package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	// zone data for images without /usr/share/zoneinfo
	_ "time/tzdata"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	LockLocal = "local"
	LockRedis = "redis"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level
	InternalJobToken   string

	StorageDriver  string
	DBURL          string
	DBMaxOpenConns int
	CacheEnabled   bool
	CacheTTL       time.Duration

	LockDriver    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration

	OpenLigaBaseURL               string
	OpenLigaLeague                string
	OpenLigaLeagueID              int64
	OpenLigaSeason                int
	OpenLigaTeamID                int64
	OpenLigaTeamName              string
	OpenLigaLocation              *time.Location
	OpenLigaTimeout               time.Duration
	OpenLigaMaxRetries            int
	OpenLigaCircuitEnabled        bool
	OpenLigaCircuitFailureCount   int
	OpenLigaCircuitOpenTimeout    time.Duration
	OpenLigaCircuitHalfOpenMaxReq int

	AutomaticUpdates        bool
	SyncCron                string
	SyncTimeout             time.Duration
	SyncLockWait            time.Duration
	MatchdayLag             int
	ReconcileWorkers        int
	LeaderboardTendencyDesc bool

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "fch-tippspiel"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
	}
	if appEnv == EnvProd && cfg.InternalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when APP_ENV=%s", EnvProd)
	}

	if cfg.ReadTimeout, err = time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	if cfg.WriteTimeout, err = time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "60s")); err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	if err := loadStorage(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLock(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadOpenLiga(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadSync(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadStorage(cfg *Config) error {
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
		if cfg.DBURL == "" {
			return fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", cfg.StorageDriver, StorageMemory, StoragePostgres)
	}

	var err error
	if cfg.DBMaxOpenConns, err = getEnvAsInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if cfg.CacheEnabled, err = strconv.ParseBool(getEnv("CACHE_ENABLED", "true")); err != nil {
		return fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "30s")); err != nil {
		return fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0")
	}
	return nil
}

func loadLock(cfg *Config) error {
	cfg.LockDriver = strings.ToLower(strings.TrimSpace(getEnv("LOCK_DRIVER", LockLocal)))
	switch cfg.LockDriver {
	case LockLocal:
	case LockRedis:
		cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", ""))
		if cfg.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when LOCK_DRIVER=%s", LockRedis)
		}
		cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	default:
		return fmt.Errorf("invalid LOCK_DRIVER %q: valid values are %s, %s", cfg.LockDriver, LockLocal, LockRedis)
	}

	var err error
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0")
	}
	if cfg.LockTTL, err = time.ParseDuration(getEnv("LOCK_TTL", "2m")); err != nil {
		return fmt.Errorf("parse LOCK_TTL: %w", err)
	}
	if cfg.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be > 0")
	}
	return nil
}

func loadOpenLiga(cfg *Config) error {
	cfg.OpenLigaBaseURL = strings.TrimSpace(getEnv("OPENLIGADB_BASE_URL", "https://api.openligadb.de"))
	cfg.OpenLigaLeague = strings.TrimSpace(getEnv("OPENLIGADB_LEAGUE", "bl1"))
	cfg.OpenLigaTeamName = strings.TrimSpace(getEnv("OPENLIGADB_TEAM_NAME", "1. FC Heidenheim 1846"))

	var err error
	if cfg.OpenLigaLeagueID, err = getEnvAsInt64("OPENLIGADB_LEAGUE_ID", 4608); err != nil {
		return fmt.Errorf("parse OPENLIGADB_LEAGUE_ID: %w", err)
	}
	if cfg.OpenLigaSeason, err = getEnvAsInt("OPENLIGADB_SEASON", 2023); err != nil {
		return fmt.Errorf("parse OPENLIGADB_SEASON: %w", err)
	}
	if cfg.OpenLigaTeamID, err = getEnvAsInt64("OPENLIGADB_TEAM_ID", 199); err != nil {
		return fmt.Errorf("parse OPENLIGADB_TEAM_ID: %w", err)
	}
	if cfg.OpenLigaLeagueID <= 0 || cfg.OpenLigaSeason <= 0 || cfg.OpenLigaTeamID <= 0 {
		return fmt.Errorf("OPENLIGADB_LEAGUE_ID, OPENLIGADB_SEASON and OPENLIGADB_TEAM_ID must be > 0")
	}

	tz := getEnv("OPENLIGADB_TIMEZONE", "Europe/Berlin")
	if cfg.OpenLigaLocation, err = time.LoadLocation(tz); err != nil {
		return fmt.Errorf("parse OPENLIGADB_TIMEZONE: %w", err)
	}

	if cfg.OpenLigaTimeout, err = time.ParseDuration(getEnv("OPENLIGADB_TIMEOUT", "10s")); err != nil {
		return fmt.Errorf("parse OPENLIGADB_TIMEOUT: %w", err)
	}
	if cfg.OpenLigaTimeout <= 0 {
		return fmt.Errorf("OPENLIGADB_TIMEOUT must be > 0")
	}
	if cfg.OpenLigaMaxRetries, err = getEnvAsInt("OPENLIGADB_MAX_RETRIES", 2); err != nil {
		return fmt.Errorf("parse OPENLIGADB_MAX_RETRIES: %w", err)
	}
	if cfg.OpenLigaMaxRetries < 0 {
		return fmt.Errorf("OPENLIGADB_MAX_RETRIES must be >= 0")
	}

	if cfg.OpenLigaCircuitEnabled, err = strconv.ParseBool(getEnv("OPENLIGADB_CIRCUIT_ENABLED", "true")); err != nil {
		return fmt.Errorf("parse OPENLIGADB_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.OpenLigaCircuitFailureCount, err = getEnvAsInt("OPENLIGADB_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return fmt.Errorf("parse OPENLIGADB_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.OpenLigaCircuitFailureCount < 1 {
		return fmt.Errorf("OPENLIGADB_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.OpenLigaCircuitOpenTimeout, err = time.ParseDuration(getEnv("OPENLIGADB_CIRCUIT_OPEN_TIMEOUT", "30s")); err != nil {
		return fmt.Errorf("parse OPENLIGADB_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cfg.OpenLigaCircuitOpenTimeout <= 0 {
		return fmt.Errorf("OPENLIGADB_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	if cfg.OpenLigaCircuitHalfOpenMaxReq, err = getEnvAsInt("OPENLIGADB_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return fmt.Errorf("parse OPENLIGADB_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.OpenLigaCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("OPENLIGADB_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	return nil
}

func loadSync(cfg *Config) error {
	var err error
	if cfg.AutomaticUpdates, err = strconv.ParseBool(getEnv("AUTOMATIC_UPDATES", "true")); err != nil {
		return fmt.Errorf("parse AUTOMATIC_UPDATES: %w", err)
	}
	// empty disables the scheduler
	cfg.SyncCron = strings.TrimSpace(os.Getenv("SYNC_CRON"))
	if cfg.SyncTimeout, err = time.ParseDuration(getEnv("SYNC_TIMEOUT", "2m")); err != nil {
		return fmt.Errorf("parse SYNC_TIMEOUT: %w", err)
	}
	if cfg.SyncTimeout <= 0 {
		return fmt.Errorf("SYNC_TIMEOUT must be > 0")
	}
	if cfg.SyncLockWait, err = time.ParseDuration(getEnv("SYNC_LOCK_WAIT", "5s")); err != nil {
		return fmt.Errorf("parse SYNC_LOCK_WAIT: %w", err)
	}
	if cfg.SyncLockWait <= 0 {
		return fmt.Errorf("SYNC_LOCK_WAIT must be > 0")
	}
	if cfg.MatchdayLag, err = getEnvAsInt("SYNC_MATCHDAY_LAG", 1); err != nil {
		return fmt.Errorf("parse SYNC_MATCHDAY_LAG: %w", err)
	}
	if cfg.MatchdayLag < 1 {
		return fmt.Errorf("SYNC_MATCHDAY_LAG must be >= 1")
	}
	if cfg.ReconcileWorkers, err = getEnvAsInt("RECONCILE_WORKERS", 4); err != nil {
		return fmt.Errorf("parse RECONCILE_WORKERS: %w", err)
	}
	if cfg.ReconcileWorkers < 1 {
		return fmt.Errorf("RECONCILE_WORKERS must be >= 1")
	}
	if cfg.LeaderboardTendencyDesc, err = strconv.ParseBool(getEnv("LEADERBOARD_TENDENCY_DESC", "false")); err != nil {
		return fmt.Errorf("parse LEADERBOARD_TENDENCY_DESC: %w", err)
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)
	cfg.PyroscopeAuthToken = getEnv("PYROSCOPE_AUTH_TOKEN", "")
	cfg.PyroscopeBasicAuthUser = getEnv("PYROSCOPE_BASIC_AUTH_USER", "")
	cfg.PyroscopeBasicAuthPassword = getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")
	if cfg.PyroscopeUploadRate, err = time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if cfg.PyroscopeUploadRate <= 0 {
		return fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	return nil
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

	return strconv.Atoi(value)
}

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseInt(value, 10, 64)
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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
