package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emrgen/notion/internal/compress"
)

const (
	SqliteDriver   = "sqlite"
	PostgresDriver = "postgres"
)

type DbConfig struct {
	Driver string
	DSN    string
}

type KafkaConfig struct {
	Brokers string
	Topic   string
}

type MeiliConfig struct {
	URL    string
	APIKey string
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type AuthConfig struct {
	JWTSecret string
	JWKSURL   string
}

type CascadeConfig struct {
	RepairSchedule string
	Retention      time.Duration
}

// Config is the service configuration, read from the environment and an optional .env file.
type Config struct {
	DB          DbConfig
	GrpcPort    string
	HttpPort    string
	RedisURL    string
	Kafka       KafkaConfig
	Meili       MeiliConfig
	S3          S3Config
	Auth        AuthConfig
	Compression string
	Cascade     CascadeConfig
	LogLevel    logrus.Level
}

func defaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", SqliteDriver)
	v.SetDefault("DB_DSN", "./.tmp/db/document.db")
	v.SetDefault("GRPC_PORT", "4020")
	v.SetDefault("HTTP_PORT", "4021")
	v.SetDefault("KAFKA_TOPIC", "document-events")
	v.SetDefault("S3_BUCKET", "covers")
	v.SetDefault("S3_USE_SSL", false)
	v.SetDefault("CONTENT_COMPRESSION", compress.GZipName)
	v.SetDefault("CASCADE_REPAIR_SCHEDULE", "@every 5m")
	v.SetDefault("CASCADE_RETENTION", time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
}

// LoadConfig reads the configuration. Variables already set in the environment win over .env.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	level, err := logrus.ParseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	cnf := &Config{
		DB: DbConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:    v.GetString("DB_DSN"),
		},
		GrpcPort: v.GetString("GRPC_PORT"),
		HttpPort: v.GetString("HTTP_PORT"),
		RedisURL: v.GetString("REDIS_URL"),
		Kafka: KafkaConfig{
			Brokers: v.GetString("KAFKA_BROKERS"),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Meili: MeiliConfig{
			URL:    v.GetString("MEILI_URL"),
			APIKey: v.GetString("MEILI_API_KEY"),
		},
		S3: S3Config{
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			Bucket:    v.GetString("S3_BUCKET"),
			UseSSL:    v.GetBool("S3_USE_SSL"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			JWKSURL:   v.GetString("JWKS_URL"),
		},
		Compression: v.GetString("CONTENT_COMPRESSION"),
		Cascade: CascadeConfig{
			RepairSchedule: v.GetString("CASCADE_REPAIR_SCHEDULE"),
			Retention:      v.GetDuration("CASCADE_RETENTION"),
		},
		LogLevel: level,
	}

	if err := cnf.Validate(); err != nil {
		return nil, err
	}

	return cnf, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case SqliteDriver, PostgresDriver:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("DB_DSN is required")
	}
	if _, err := compress.Lookup(c.Compression); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" && c.Auth.JWKSURL == "" {
		logrus.Warn("neither JWT_SECRET nor JWKS_URL is set, every request is anonymous")
	}

	return nil
}

// GetDb opens the configured database.
func GetDb(cnf *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cnf.DB.Driver {
	case PostgresDriver:
		return gorm.Open(postgres.Open(cnf.DB.DSN), gormConfig)
	default:
		if err := os.MkdirAll(filepath.Dir(cnf.DB.DSN), os.ModePerm); err != nil {
			return nil, err
		}
		db, err := gorm.Open(sqlite.Open(cnf.DB.DSN+"?_busy_timeout=5000"), gormConfig)
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)

		return db, nil
	}
}
