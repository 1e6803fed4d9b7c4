package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	NATS      NATSConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver     string // postgres, sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
	LogLevel   string // gorm logger: silent, error, warn, info
}

// NATSConfig ว่าง = ไม่ใช้ NATS (publish activity ไป websocket อย่างเดียว)
type NATSConfig struct {
	URL         string
	ActivityTTL time.Duration
}

// RedisConfig ใช้เก็บ token ที่ logout แล้ว ว่าง = เก็บใน memory
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both, none
	FilePath   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // วัน
	Compress   bool
}

type StorageConfig struct {
	Type           string // local, s3
	BasePath       string // local: ./uploads
	BaseURL        string // URL ที่ใช้เข้าถึงไฟล์ local
	MaxUploadSize  int64  // bytes
	MinFreePercent float64
	S3             S3Config
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string
}

type SchedulerConfig struct {
	Enabled          bool
	OverdueSweepCron string
}

type CORSConfig struct {
	AllowOrigins string
}

func LoadConfig() (*Config, error) {
	// ไม่มี .env ก็ใช้ environment variables ได้
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	maxUploadSize, _ := strconv.ParseInt(getEnv("STORAGE_MAX_UPLOAD_SIZE", "26214400"), 10, 64) // 25MB
	minFreePercent, _ := strconv.ParseFloat(getEnv("STORAGE_MIN_FREE_PERCENT", "10"), 64)

	jwtTTLHours, err := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	if err != nil || jwtTTLHours <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL_HOURS: %q", os.Getenv("JWT_TTL_HOURS"))
	}
	activityTTLHours, _ := strconv.Atoi(getEnv("NATS_ACTIVITY_TTL_HOURS", "168"))

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "Project Tracker"),
			Port: getEnv("APP_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			DBName:     getEnv("DB_NAME", "project_tracker"),
			SSLMode:    getEnv("DB_SSL_MODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "./data/tracker.db"),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		NATS: NATSConfig{
			URL:         getEnv("NATS_URL", ""),
			ActivityTTL: time.Duration(activityTTLHours) * time.Hour,
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production"),
			TTL:    time.Duration(jwtTTLHours) * time.Hour,
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE", "logs/tracker.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   getEnv("LOG_COMPRESS", "true") == "true",
		},
		Storage: StorageConfig{
			Type:           getEnv("STORAGE_TYPE", "local"),
			BasePath:       getEnv("STORAGE_BASE_PATH", "./uploads"),
			BaseURL:        getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
			MaxUploadSize:  maxUploadSize,
			MinFreePercent: minFreePercent,
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("S3_ACCESS_KEY", "minioadmin"),
				SecretKey: getEnv("S3_SECRET_KEY", "minioadmin"),
				Bucket:    getEnv("S3_BUCKET", "submissions"),
				UseSSL:    getEnv("S3_USE_SSL", "false") == "true",
				Region:    getEnv("S3_REGION", "us-east-1"),
				PublicURL: getEnv("S3_PUBLIC_URL", ""),
			},
		},
		Scheduler: SchedulerConfig{
			Enabled:          getEnv("SCHEDULER_ENABLED", "true") == "true",
			OverdueSweepCron: getEnv("OVERDUE_SWEEP_CRON", "*/30 * * * *"),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate เช็คค่าที่ผิดแล้วระบบรันต่อไม่ได้
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (postgres, sqlite)", c.Database.Driver)
	}

	switch c.Storage.Type {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE %q (local, s3)", c.Storage.Type)
	}

	if c.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == "change-me-in-production") {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
