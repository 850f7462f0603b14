package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Mistral     MistralConfig    `mapstructure:"mistral"`
	Vision      VisionConfig     `mapstructure:"vision"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Queue       QueueConfig      `mapstructure:"queue"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Image       ImageConfig      `mapstructure:"image"`
	Storage     StorageConfig    `mapstructure:"storage"`
	ImageStore  ImageStoreConfig `mapstructure:"image_store"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
	LogDir      string           `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// MistralConfig 語言模型（chat completion）配置
type MistralConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// VisionConfig 影像辨識服務配置
type VisionConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// QueueConfig 寫入隊列設定
type QueueConfig struct {
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64    `mapstructure:"max_size_bytes"`
	// AllowedHosts 允許下載圖片的主機，空值表示不限制
	AllowedHosts []string `mapstructure:"allowed_hosts"`
}

// StorageConfig 本地鍵值儲存配置
type StorageConfig struct {
	Driver        string `mapstructure:"driver"` // file 或 redis
	Dir           string `mapstructure:"dir"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

// ImageStoreConfig 拍攝照片儲存配置
type ImageStoreConfig struct {
	Driver            string `mapstructure:"driver"` // local 或 s3
	Dir               string `mapstructure:"dir"`
	S3Bucket          string `mapstructure:"s3_bucket"`
	S3Region          string `mapstructure:"s3_region"`
	S3Endpoint        string `mapstructure:"s3_endpoint"`
	S3Prefix          string `mapstructure:"s3_prefix"`
	// 靜態憑證，未設定時使用 AWS 預設憑證鏈
	S3AccessKeyID     string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
}

// LoadConfig 載入設定
// .env 由呼叫端以 godotenv 載入，這裡只讀取環境變數與預設值
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"mistral.api_key":                  "MISTRAL_API_KEY",
		"mistral.model":                    "MISTRAL_MODEL",
		"mistral.base_url":                 "MISTRAL_BASE_URL",
		"vision.api_key":                   "VISION_API_KEY",
		"vision.base_url":                  "VISION_BASE_URL",
		"cache.enabled":                    "CACHE_ENABLED",
		"rate_limit.enabled":               "RATE_LIMIT_ENABLED",
		"rate_limit.requests":              "RATE_LIMIT_REQUESTS",
		"rate_limit.window":                "RATE_LIMIT_WINDOW",
		"storage.driver":                   "STORAGE_DRIVER",
		"storage.dir":                      "STORAGE_DIR",
		"storage.redis_addr":               "REDIS_ADDR",
		"storage.redis_password":           "REDIS_PASSWORD",
		"image_store.driver":               "IMAGE_STORE_DRIVER",
		"image_store.s3_bucket":            "IMAGE_STORE_S3_BUCKET",
		"image_store.s3_region":            "AWS_REGION",
		"image_store.s3_endpoint":          "IMAGE_STORE_S3_ENDPOINT",
		"image_store.s3_access_key_id":     "IMAGE_STORE_S3_ACCESS_KEY_ID",
		"image_store.s3_secret_access_key": "IMAGE_STORE_S3_SECRET_ACCESS_KEY",
		"image.allowed_hosts":              "IMAGE_ALLOWED_HOSTS",
		"dedup_window":                     "DEDUP_WINDOW",
		"log_level":                        "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "snap-pantry")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("server.max_body_bytes", 12<<20)

	// 語言模型設定
	v.SetDefault("mistral.base_url", "https://api.mistral.ai/v1")
	v.SetDefault("mistral.model", "mistral-small")
	v.SetDefault("mistral.timeout", "45s")

	// 影像辨識設定
	v.SetDefault("vision.base_url", "https://vision.googleapis.com/v1")
	v.SetDefault("vision.max_results", 10)
	v.SetDefault("vision.timeout", "30s")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 500)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// 隊列設定
	v.SetDefault("queue.max_size", 100)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", "1m")

	// 圖片設定
	v.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB

	// 儲存設定
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.dir", "data")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.key_prefix", "snap-pantry:")

	v.SetDefault("image_store.driver", "local")
	v.SetDefault("image_store.dir", "data/images")
	v.SetDefault("image_store.s3_prefix", "captures/")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit settings")
	}

	switch config.Storage.Driver {
	case "file":
		if config.Storage.Dir == "" {
			return fmt.Errorf("storage dir is required for file driver")
		}
	case "redis":
		if config.Storage.RedisAddr == "" {
			return fmt.Errorf("redis addr is required for redis driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	switch config.ImageStore.Driver {
	case "local":
		if config.ImageStore.Dir == "" {
			return fmt.Errorf("image store dir is required for local driver")
		}
	case "s3":
		if config.ImageStore.S3Bucket == "" {
			return fmt.Errorf("s3 bucket is required for s3 image store")
		}
	default:
		return fmt.Errorf("unknown image store driver %q", config.ImageStore.Driver)
	}

	if config.Vision.MaxResults <= 0 {
		return fmt.Errorf("invalid vision max results")
	}

	return nil
}
