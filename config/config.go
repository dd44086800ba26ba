package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverMemory   = "memory"

	ObjectStoreDriverMinIO = "minio"
	ObjectStoreDriverS3    = "s3"
)

type (
	APP struct {
		Name      string
		Host      string
		Port      string
		Env       string
		JWTSecret string
	}
	DB struct {
		Driver   string
		User     string
		Password string
		Name     string
		Host     string
		Port     string
	}
	ObjectStore struct {
		Driver          string
		Endpoint        string
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		UseSSL          bool
	}
	Storage struct {
		DefaultBucket     string
		MaxFileSize       int64
		AllowedExtensions []string
		SignedURLTTL      time.Duration
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App         APP
		DB          DB
		ObjectStore ObjectStore
		Storage     Storage
		MQ          MQ
	}
)

// documents, images, audio/video and common archives
var defaultAllowedExtensions = []string{
	".txt", ".pdf", ".jpg", ".jpeg", ".png", ".gif", ".mp4", ".mov",
	".mp3", ".wav", ".doc", ".docx", ".xls", ".xlsx", ".zip", ".csv",
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getEnvList(key string, def []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}

	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		if !strings.HasPrefix(item, ".") {
			item = "." + item
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func Load() Config {
	app := APP{
		Name:      getEnv("SERVICE_NAME", "filestorage"),
		Host:      getEnv("SERVICE_HOST", ""),
		Port:      getEnv("SERVICE_PORT", "8000"),
		Env:       getEnv("SERVICE_ENV", ""),
		JWTSecret: getEnv("SERVICE_JWT_SECRET", ""),
	}
	db := DB{
		Driver:   getEnv("DB_DRIVER", DBDriverPostgres),
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
	}
	objectStore := ObjectStore{
		Driver:          getEnv("OBJECT_STORE_DRIVER", ObjectStoreDriverMinIO),
		Endpoint:        getEnv("OBJECT_STORE_ENDPOINT", ""),
		Region:          getEnv("OBJECT_STORE_REGION", "us-east-1"),
		AccessKeyID:     getEnv("OBJECT_STORE_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("OBJECT_STORE_SECRET_ACCESS_KEY", ""),
		UseSSL:          getEnvBool("OBJECT_STORE_USE_SSL", false),
	}
	storage := Storage{
		DefaultBucket:     getEnv("STORAGE_DEFAULT_BUCKET", "user-files"),
		MaxFileSize:       getEnvInt64("STORAGE_MAX_FILE_SIZE", 50<<20),
		AllowedExtensions: getEnvList("STORAGE_ALLOWED_EXTENSIONS", defaultAllowedExtensions),
		SignedURLTTL:      getEnvDuration("STORAGE_SIGNED_URL_TTL", time.Hour),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "filestorage.events"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "filestorage.orphans"),
	}

	return Config{
		App:         app,
		DB:          db,
		ObjectStore: objectStore,
		Storage:     storage,
		MQ:          mq,
	}
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}

// IsExtensionAllowed reports whether ext (with leading dot, any case) may be uploaded.
// An empty allowlist accepts everything.
func (s Storage) IsExtensionAllowed(ext string) bool {
	if len(s.AllowedExtensions) == 0 {
		return true
	}
	ext = strings.ToLower(ext)
	for _, allowed := range s.AllowedExtensions {
		if allowed == ext {
			return true
		}
	}
	return false
}
