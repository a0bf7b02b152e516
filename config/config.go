package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	IPaymu   IPaymuConfig
	WhatsApp WhatsAppConfig
	Store    StoreConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// IPaymuConfig holds the gateway credentials and the public base URL the
// gateway calls back to. VA, APIKey and BaseURL are required secrets.
type IPaymuConfig struct {
	VA        string
	APIKey    string
	BaseURL   string
	AppURL    string // public https origin; notify/return URLs derive from it
	Timeout   time.Duration
	MinAmount int64
}

func (c IPaymuConfig) NotifyURL() string { return c.AppURL + "/api/v1/payments/callback" }
func (c IPaymuConfig) ReturnURL() string { return c.AppURL + "/success.html" }

// WhatsAppConfig points at a WAHA sendText endpoint. Empty URL disables
// staff notifications.
type WhatsAppConfig struct {
	URL     string
	APIKey  string
	Session string
	ChatID  string // staff group/number, e.g. 6281234567890@c.us
	Timeout time.Duration
}

type StoreConfig struct {
	StatusTTL     time.Duration // 0 keeps records for process lifetime
	PruneInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] no .env file, using system environment")
	}
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8088"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_DSN", "kasirpay:kasirpay@tcp(localhost:3306)/kasirpay?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		IPaymu: IPaymuConfig{
			VA:        os.Getenv("IPAYMU_VA"),
			APIKey:    os.Getenv("IPAYMU_APIKEY"),
			BaseURL:   os.Getenv("IPAYMU_BASE_URL"),
			AppURL:    getEnv("APP_URL", "https://kasirpay.example.com"),
			Timeout:   15 * time.Second,
			MinAmount: envInt64("IPAYMU_MIN_AMOUNT", 1000),
		},
		WhatsApp: WhatsAppConfig{
			URL:     os.Getenv("WAHA_URL"),
			APIKey:  os.Getenv("WAHA_X_API_KEY"),
			Session: getEnv("WAHA_SESSION", "default"),
			ChatID:  os.Getenv("WAHA_STAFF_CHAT_ID"),
			Timeout: 10 * time.Second,
		},
		Store: StoreConfig{
			StatusTTL:     time.Duration(envInt64("STATUS_TTL_MINUTES", 0)) * time.Minute,
			PruneInterval: 10 * time.Minute,
		},
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("[CONFIG] %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}
