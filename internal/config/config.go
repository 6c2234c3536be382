package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	JWT       JWTConfig
	Media     MediaConfig
	Billing   BillingConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Env         string
	Port        string
	Version     string
	Debug       bool
	CORSOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketPhotos    string
	BucketVideos    string
	BucketThumbs    string
}

type JWTConfig struct {
	Secret               string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// MediaConfig carries upload validation limits and directory paging.
type MediaConfig struct {
	MaxImageSize     int64
	MaxVideoSize     int64
	MaxVideoDuration time.Duration
	PageSize         int
}

// TierQuota is the photo/video allowance of one subscription tier.
// TotalPhotos is always GalleryPhotos plus the single profile picture.
type TierQuota struct {
	ProfilePhoto  int
	GalleryPhotos int
	TotalPhotos   int
	Videos        int
}

// BillingConfig holds the immutable tier table, loaded once at startup
// and passed by injection rather than read as module globals.
type BillingConfig struct {
	CheckoutProvider string // "mock" or "stripe"
	CheckoutAPIKey   string
	PortalBaseURL    string
	Tiers            map[string]TierQuota
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func Load() *Config {
	return &Config{
		App: AppConfig{
			Env:         getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Debug:       getBoolEnv("APP_DEBUG", false),
			CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "postgres"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "directory_user"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "escort_directory"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "redis"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:        getEnv("MINIO_ENDPOINT", "minio:9000"),
			AccessKeyID:     getEnv("MINIO_ROOT_USER", ""),
			SecretAccessKey: getEnv("MINIO_ROOT_PASSWORD", ""),
			UseSSL:          getBoolEnv("MINIO_USE_SSL", false),
			BucketPhotos:    getEnv("MINIO_BUCKET_PHOTOS", "directory-photos"),
			BucketVideos:    getEnv("MINIO_BUCKET_VIDEOS", "directory-videos"),
			BucketThumbs:    getEnv("MINIO_BUCKET_THUMBS", "directory-thumbnails"),
		},
		JWT: JWTConfig{
			Secret:               getEnv("JWT_SECRET", ""),
			AccessTokenDuration:  getDurationEnv("JWT_ACCESS_TOKEN_EXPIRE", "15m"),
			RefreshTokenDuration: getDurationEnv("JWT_REFRESH_TOKEN_EXPIRE", "7d"),
		},
		Media: MediaConfig{
			MaxImageSize:     getInt64Env("MEDIA_MAX_IMAGE_BYTES", 5*1024*1024),
			MaxVideoSize:     getInt64Env("MEDIA_MAX_VIDEO_BYTES", 50*1024*1024),
			MaxVideoDuration: getDurationEnv("MEDIA_MAX_VIDEO_DURATION", "60s"),
			PageSize:         getIntEnv("DIRECTORY_PAGE_SIZE", 28),
		},
		Billing: BillingConfig{
			CheckoutProvider: getEnv("CHECKOUT_PROVIDER", "mock"),
			CheckoutAPIKey:   getEnv("CHECKOUT_API_KEY", ""),
			PortalBaseURL:    getEnv("CHECKOUT_PORTAL_URL", "https://billing.example.com/portal"),
			Tiers:            defaultTiers(),
		},
		RateLimit: RateLimitConfig{
			Requests: getIntEnv("RATE_LIMIT_REQUESTS", 100),
			Window:   getDurationEnv("RATE_LIMIT_WINDOW", "1m"),
		},
	}
}

func defaultTiers() map[string]TierQuota {
	tiers := map[string]TierQuota{
		"trial":    {GalleryPhotos: 2, Videos: 0},
		"basic":    {GalleryPhotos: 5, Videos: 1},
		"package1": {GalleryPhotos: 9, Videos: 2},
		"package2": {GalleryPhotos: 14, Videos: 3},
		"package3": {GalleryPhotos: 19, Videos: 4},
		"package4": {GalleryPhotos: 29, Videos: 6},
		"platinum": {GalleryPhotos: 49, Videos: 10},
	}

	for name, q := range tiers {
		q.ProfilePhoto = 1
		q.TotalPhotos = q.GalleryPhotos + 1
		tiers[name] = q
	}

	return tiers
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)

	// Handle simple formats like "7d" for 7 days
	if strings.HasSuffix(value, "d") {
		days := strings.TrimSuffix(value, "d")
		if d, err := strconv.Atoi(days); err == nil {
			return time.Duration(d) * 24 * time.Hour
		}
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Default to 15 minutes if parsing fails
	return 15 * time.Minute
}
