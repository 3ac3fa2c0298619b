package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis RedisConfig `yaml:"redis"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3
		SecretKey  string `yaml:"secret_key"`  // For S3
		Endpoint   string `yaml:"endpoint"`    // For custom S3
		UseSSL     bool   `yaml:"use_ssl"`     // For S3
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
	} `yaml:"upload"`

	AI AIConfig `yaml:"ai"`

	Billing struct {
		CheckoutBaseURL string `yaml:"checkout_base_url"`
		WebhookSecret   string `yaml:"webhook_secret"`
	} `yaml:"billing"`
}

// RedisConfig - подключение к Redis (кеш контекста чат-сессий)
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ProviderConfig - настройки одного LLM-провайдера
type ProviderConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AIConfig - настройки LLM-слоя: провайдеры, роутинг по типу задачи,
// circuit breaker и rate limit
type AIConfig struct {
	OpenAI    ProviderConfig    `yaml:"openai"`
	Anthropic ProviderConfig    `yaml:"anthropic"`
	Qwen      ProviderConfig    `yaml:"qwen"`
	Routing   map[string]string `yaml:"routing"` // task_type -> provider name

	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
}

// CircuitBreakerConfig - параметры перевода провайдера в режим отказа
type CircuitBreakerConfig struct {
	Enabled          bool    `yaml:"enabled"`
	MaxRequests      uint32  `yaml:"max_requests"`
	IntervalSeconds  int     `yaml:"interval_seconds"`
	TimeoutSeconds   int     `yaml:"timeout_seconds"`
	MinRequests      uint32  `yaml:"min_requests"`
	FailureThreshold float64 `yaml:"failure_threshold"`
}

// RateLimitConfig - исходящий лимит запросов к LLM-провайдерам
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")
	serverEnv := os.Getenv("SERVER_ENV")
	portStr := os.Getenv("SERVER_PORT")
	jwtSecret := os.Getenv("JWT_SECRET")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml (режим НЕ-тест)")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения (режим теста)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = serverEnv
	cfg.Server.Port, _ = strconv.Atoi(portStr)
	cfg.JWT.Secret = jwtSecret
	cfg.JWT.TTL = 60

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "test@resumehub.io"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	cfg.Upload.AllowedTypes = []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
	}

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.AI.Routing == nil {
		cfg.AI.Routing = map[string]string{
			"resume_analysis":          "anthropic",
			"optimization_suggestions": "openai",
			"ats_scoring":              "openai",
			"keyword_extraction":       "openai",
			"chat_response":            "qwen",
		}
	}
	if cfg.AI.RateLimit.RequestsPerSecond == 0 {
		cfg.AI.RateLimit.RequestsPerSecond = 5
		cfg.AI.RateLimit.Burst = 10
	}
	if cfg.AI.CircuitBreaker.MaxRequests == 0 {
		cfg.AI.CircuitBreaker.MaxRequests = 3
		cfg.AI.CircuitBreaker.IntervalSeconds = 60
		cfg.AI.CircuitBreaker.TimeoutSeconds = 30
		cfg.AI.CircuitBreaker.MinRequests = 5
		cfg.AI.CircuitBreaker.FailureThreshold = 0.6
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
