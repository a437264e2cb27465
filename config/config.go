package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment
const ENV_PROD = "prod"
const ENV_DEV = "dev"

// HTTP server
const DEFAULT_LISTEN_ADDRESS = ":8080"
const SHUTDOWN_TIMEOUT_SECONDS = 5

// Festival
const DEFAULT_FESTIVAL_NAME = "Fiestas de Mislata"
const DEFAULT_TIMEZONE = "Europe/Madrid"
const DEFAULT_CUTOVER_HOUR = 5
const DEFAULT_EVENT_DURATION = 2 * time.Hour
const DEFAULT_FESTIVAL_START_DATE = "2025-08-23"
const DEFAULT_FESTIVAL_END_DATE = "2025-09-06"

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// Catalog refresher config
const CATALOG_SOURCE_STATIC = "static"
const CATALOG_SOURCE_REMOTE = "remote"
const CATALOG_REFRESHER_SCHEDULE_MINUTES = 60
const STATUS_TICKER_SCHEDULE = "@every 1m"
const STATUS_OVERRIDE_TTL = 6 * time.Hour

// Analytics
const ANALYTICS_SINK_LOG = "log"
const ANALYTICS_SINK_AMQP = "amqp"
const ANALYTICS_SINK_NONE = "none"
const ANALYTICS_QUEUE = "festival.analytics"

// Photos
const PHOTOS_MAX_FILES = 5
const PHOTOS_MAX_FILE_BYTES = 5 * 1024 * 1024
const PHOTOS_MAX_DIMENSION = 1200
const PHOTOS_THUMBNAIL_DIMENSION = 400
const PHOTOS_JPEG_QUALITY = 80
const PHOTOS_STORAGE_DIR = "media"
const PHOTOS_PUBLIC_BASE_URL = "/media"
const PHOTOS_MEDIA_ROUTE = "/media"
const PHOTOS_MAX_PIXELS = 50_000_000
const PHOTOS_METADATA_REDIS = "redis"
const PHOTOS_METADATA_POSTGRES = "postgres"

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const EVENTS_RESOURCE = "events.json"
const DEFAULT_CONFIG_FILE = "config.yaml"

type FestivalConfig struct {
	Name            string        `yaml:"name"`
	Timezone        string        `yaml:"timezone"`
	CutoverHour     int           `yaml:"cutover_hour"`
	DefaultDuration time.Duration `yaml:"default_duration"`
	StartDate       string        `yaml:"start_date"`
	EndDate         string        `yaml:"end_date"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CatalogConfig struct {
	Source               string        `yaml:"source"`
	StaticPath           string        `yaml:"static_path"`
	RemoteBaseURL        string        `yaml:"remote_base_url"`
	RefreshMinutes       int           `yaml:"refresh_minutes"`
	StatusTickerSchedule string        `yaml:"status_ticker_schedule"`
	StatusOverrideTTL    time.Duration `yaml:"status_override_ttl"`
}

type AnalyticsConfig struct {
	Sink    string `yaml:"sink"`
	AMQPURL string `yaml:"amqp_url"`
	Queue   string `yaml:"queue"`
}

type PhotosConfig struct {
	MaxFiles           int    `yaml:"max_files"`
	MaxFileBytes       int64  `yaml:"max_file_bytes"`
	MaxDimension       int    `yaml:"max_dimension"`
	ThumbnailDimension int    `yaml:"thumbnail_dimension"`
	JPEGQuality        int    `yaml:"jpeg_quality"`
	MaxPixels          int64  `yaml:"max_pixels"`
	StorageDir         string `yaml:"storage_dir"`
	PublicBaseURL      string `yaml:"public_base_url"`
	// MediaRoute is the local path the stored photos are served under.
	// Empty leaves serving to whatever hosts PublicBaseURL.
	MediaRoute    string `yaml:"media_route"`
	MetadataStore string `yaml:"metadata_store"`
	PostgresDSN   string `yaml:"postgres_dsn"`
}

// Config is the full runtime configuration of the server.
type Config struct {
	Env       string          `yaml:"env"`
	Listen    string          `yaml:"listen"`
	Festival  FestivalConfig  `yaml:"festival"`
	Redis     RedisConfig     `yaml:"redis"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Photos    PhotosConfig    `yaml:"photos"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	return &Config{
		Env:    ENV_DEV,
		Listen: DEFAULT_LISTEN_ADDRESS,
		Festival: FestivalConfig{
			Name:            DEFAULT_FESTIVAL_NAME,
			Timezone:        DEFAULT_TIMEZONE,
			CutoverHour:     DEFAULT_CUTOVER_HOUR,
			DefaultDuration: DEFAULT_EVENT_DURATION,
			StartDate:       DEFAULT_FESTIVAL_START_DATE,
			EndDate:         DEFAULT_FESTIVAL_END_DATE,
		},
		Redis: RedisConfig{
			Address:  REDIS_DB_ADDRESS,
			Password: REDIS_DB_PASSWORD,
			DB:       REDIS_DB,
		},
		Catalog: CatalogConfig{
			Source:               CATALOG_SOURCE_STATIC,
			StaticPath:           GetResourcePath(EVENTS_RESOURCE),
			RefreshMinutes:       CATALOG_REFRESHER_SCHEDULE_MINUTES,
			StatusTickerSchedule: STATUS_TICKER_SCHEDULE,
			StatusOverrideTTL:    STATUS_OVERRIDE_TTL,
		},
		Analytics: AnalyticsConfig{
			Sink:  ANALYTICS_SINK_LOG,
			Queue: ANALYTICS_QUEUE,
		},
		Photos: PhotosConfig{
			MaxFiles:           PHOTOS_MAX_FILES,
			MaxFileBytes:       PHOTOS_MAX_FILE_BYTES,
			MaxDimension:       PHOTOS_MAX_DIMENSION,
			ThumbnailDimension: PHOTOS_THUMBNAIL_DIMENSION,
			JPEGQuality:        PHOTOS_JPEG_QUALITY,
			MaxPixels:          PHOTOS_MAX_PIXELS,
			StorageDir:         PHOTOS_STORAGE_DIR,
			PublicBaseURL:      PHOTOS_PUBLIC_BASE_URL,
			MediaRoute:         PHOTOS_MEDIA_ROUTE,
			MetadataStore:      PHOTOS_METADATA_REDIS,
		},
	}
}

// Load reads an optional .env file, then the YAML file at path (a missing file
// keeps the defaults), then applies environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Config] Ignoring unreadable .env file: %v", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("[Config] No config file at %s, using defaults", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
			}
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.Listen, "LISTEN_ADDR")
	setString(&cfg.Festival.Timezone, "FESTIVAL_TIMEZONE")
	setInt(&cfg.Festival.CutoverHour, "FESTIVAL_CUTOVER_HOUR")
	setString(&cfg.Redis.Address, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")
	setString(&cfg.Catalog.Source, "CATALOG_SOURCE")
	setString(&cfg.Catalog.RemoteBaseURL, "CATALOG_REMOTE_BASE_URL")
	setString(&cfg.Analytics.Sink, "ANALYTICS_SINK")
	setString(&cfg.Analytics.AMQPURL, "AMQP_URL")
	setString(&cfg.Photos.MetadataStore, "PHOTOS_METADATA_STORE")
	setString(&cfg.Photos.PostgresDSN, "POSTGRES_DSN")
	setString(&cfg.Photos.PublicBaseURL, "PHOTOS_PUBLIC_BASE_URL")
	setString(&cfg.Photos.MediaRoute, "PHOTOS_MEDIA_ROUTE")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] Ignoring %s=%q: %v", key, v, err)
		return
	}
	*dst = n
}

// Validate rejects values the festival clock and the photo pipeline cannot work with.
func (c *Config) Validate() error {
	if c.Festival.CutoverHour < 0 || c.Festival.CutoverHour > 23 {
		return fmt.Errorf("festival.cutover_hour must be within 0-23, got %d", c.Festival.CutoverHour)
	}
	if c.Festival.DefaultDuration <= 0 {
		return fmt.Errorf("festival.default_duration must be positive, got %s", c.Festival.DefaultDuration)
	}
	if _, err := time.LoadLocation(c.Festival.Timezone); err != nil {
		return fmt.Errorf("festival.timezone %q: %w", c.Festival.Timezone, err)
	}
	switch c.Catalog.Source {
	case CATALOG_SOURCE_STATIC, CATALOG_SOURCE_REMOTE:
	default:
		return fmt.Errorf("catalog.source must be %q or %q, got %q", CATALOG_SOURCE_STATIC, CATALOG_SOURCE_REMOTE, c.Catalog.Source)
	}
	if c.Catalog.Source == CATALOG_SOURCE_REMOTE && c.Catalog.RemoteBaseURL == "" {
		return errors.New("catalog.remote_base_url is required for the remote source")
	}
	if c.Photos.MaxFiles <= 0 || c.Photos.MaxFileBytes <= 0 {
		return errors.New("photos.max_files and photos.max_file_bytes must be positive")
	}
	if c.Photos.MaxPixels <= 0 {
		return fmt.Errorf("photos.max_pixels must be positive, got %d", c.Photos.MaxPixels)
	}
	if r := c.Photos.MediaRoute; r != "" && (!strings.HasPrefix(r, "/") || strings.Contains(r, "://")) {
		return fmt.Errorf("photos.media_route must be a path such as /media, got %q", r)
	}
	return nil
}

// Location returns the festival time zone. Validate has already checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Festival.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resource_file string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resource_file)
}
