package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates every configuration group the core depends on.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	SQLite     SQLiteConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Log        LogConfig
	Directions DirectionsConfig
	Generator  GeneratorConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// SQLiteConfig configures the embedded, region-packaged POI repository
// variant used when no Postgres/PostGIS backend is configured.
type SQLiteConfig struct {
	Path         string
	H3Resolution int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig controls the route cache (C3): TTL and the in-process LRU
// fallback bound used when the Redis backend is unavailable.
type CacheConfig struct {
	RouteCacheTTL time.Duration
	LRUMaxEntries int
}

type LogConfig struct {
	Level string
}

// DirectionsConfig configures the external turn-by-turn provider client.
// When ProxyBaseURL is set the core selects the Proxied transport,
// otherwise it selects Direct (SPEC_FULL.md §3).
type DirectionsConfig struct {
	BaseURL        string
	ProxyBaseURL   string
	AccessToken    string
	BearerToken    string
	WalkingProfile string
	CyclingProfile string
	RequestTimeout time.Duration
	MaxWaypoints   int
}

// GeneratorConfig holds every tunable named in spec.md §4.4/§4.5/§5.
type GeneratorConfig struct {
	MaxRetries                  int
	MaxCombinationsPerTolerance int
	DirectionsFanOut            int
	FallbackAttempts            int
	MinPOISeparationKm          float64
	DefaultMaxAlternatives      int
	ScoringStrategy             string // "v1" | "v2"

	WeightDistance  float64
	WeightQuality   float64
	WeightAngular   float64
	WeightDiversity float64
	WeightVariation float64
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("API_HOST"),
			Port:         viper.GetInt("API_PORT"),
			Env:          viper.GetString("API_ENV"),
			AllowOrigins: viper.GetString("API_CORS_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("SQLITE_PATH"),
			H3Resolution: viper.GetInt("SQLITE_H3_RESOLUTION"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			RouteCacheTTL: time.Duration(viper.GetInt("ROUTE_CACHE_TTL_SECONDS")) * time.Second,
			LRUMaxEntries: viper.GetInt("ROUTE_CACHE_LRU_MAX_ENTRIES"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Directions: DirectionsConfig{
			BaseURL:        viper.GetString("DIRECTIONS_BASE_URL"),
			ProxyBaseURL:   viper.GetString("DIRECTIONS_PROXY_BASE_URL"),
			AccessToken:    viper.GetString("DIRECTIONS_ACCESS_TOKEN"),
			BearerToken:    viper.GetString("DIRECTIONS_BEARER_TOKEN"),
			WalkingProfile: viper.GetString("DIRECTIONS_WALKING_PROFILE"),
			CyclingProfile: viper.GetString("DIRECTIONS_CYCLING_PROFILE"),
			RequestTimeout: time.Duration(viper.GetInt("DIRECTIONS_REQUEST_TIMEOUT_SECONDS")) * time.Second,
			MaxWaypoints:   viper.GetInt("DIRECTIONS_MAX_WAYPOINTS"),
		},
		Generator: GeneratorConfig{
			MaxRetries:                  viper.GetInt("GENERATOR_MAX_RETRIES"),
			MaxCombinationsPerTolerance: viper.GetInt("GENERATOR_MAX_COMBINATIONS_PER_TOLERANCE"),
			DirectionsFanOut:            viper.GetInt("GENERATOR_DIRECTIONS_FANOUT"),
			FallbackAttempts:            viper.GetInt("GENERATOR_FALLBACK_ATTEMPTS"),
			MinPOISeparationKm:          viper.GetFloat64("GENERATOR_MIN_POI_SEPARATION_KM"),
			DefaultMaxAlternatives:      viper.GetInt("GENERATOR_DEFAULT_MAX_ALTERNATIVES"),
			ScoringStrategy:             viper.GetString("GENERATOR_SCORING_STRATEGY"),
			WeightDistance:              viper.GetFloat64("GENERATOR_WEIGHT_DISTANCE"),
			WeightQuality:               viper.GetFloat64("GENERATOR_WEIGHT_QUALITY"),
			WeightAngular:               viper.GetFloat64("GENERATOR_WEIGHT_ANGULAR"),
			WeightDiversity:             viper.GetFloat64("GENERATOR_WEIGHT_DIVERSITY"),
			WeightVariation:             viper.GetFloat64("GENERATOR_WEIGHT_VARIATION"),
		},
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.AllowOrigins == "" {
		cfg.Server.AllowOrigins = "*"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = "region.db"
	}
	if cfg.SQLite.H3Resolution == 0 {
		cfg.SQLite.H3Resolution = 9
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.RouteCacheTTL == 0 {
		cfg.Cache.RouteCacheTTL = 24 * time.Hour
	}
	if cfg.Cache.LRUMaxEntries == 0 {
		cfg.Cache.LRUMaxEntries = 1000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Directions.BaseURL == "" {
		cfg.Directions.BaseURL = "https://directions.example.com"
	}
	if cfg.Directions.WalkingProfile == "" {
		cfg.Directions.WalkingProfile = "walking"
	}
	if cfg.Directions.CyclingProfile == "" {
		cfg.Directions.CyclingProfile = "cycling"
	}
	if cfg.Directions.RequestTimeout == 0 {
		cfg.Directions.RequestTimeout = 30 * time.Second
	}
	if cfg.Directions.MaxWaypoints == 0 {
		cfg.Directions.MaxWaypoints = 25
	}
	if cfg.Generator.MaxRetries == 0 {
		cfg.Generator.MaxRetries = 5
	}
	if cfg.Generator.MaxCombinationsPerTolerance == 0 {
		cfg.Generator.MaxCombinationsPerTolerance = 20
	}
	if cfg.Generator.DirectionsFanOut == 0 {
		cfg.Generator.DirectionsFanOut = 5
	}
	if cfg.Generator.FallbackAttempts == 0 {
		cfg.Generator.FallbackAttempts = 3
	}
	if cfg.Generator.MinPOISeparationKm == 0 {
		cfg.Generator.MinPOISeparationKm = 0.3
	}
	if cfg.Generator.DefaultMaxAlternatives == 0 {
		cfg.Generator.DefaultMaxAlternatives = 3
	}
	if cfg.Generator.ScoringStrategy == "" {
		cfg.Generator.ScoringStrategy = "v1"
	}
	if cfg.Generator.WeightDistance == 0 {
		cfg.Generator.WeightDistance = 0.6
	}
	if cfg.Generator.WeightQuality == 0 {
		cfg.Generator.WeightQuality = 0.2
	}
	if cfg.Generator.WeightAngular == 0 {
		cfg.Generator.WeightAngular = 0.1
	}
	if cfg.Generator.WeightDiversity == 0 {
		cfg.Generator.WeightDiversity = 0.05
	}
	if cfg.Generator.WeightVariation == 0 {
		cfg.Generator.WeightVariation = 0.05
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
