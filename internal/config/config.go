package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/HasnainAli47/ResumeParser/internal/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	LLM       LLMConfig       `yaml:"llm"`
	Storage   StorageConfig   `yaml:"storage"`
	OCR       OCRConfig       `yaml:"ocr"`
	Chat      ChatConfig      `yaml:"chat"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Redis     RedisConfig     `yaml:"redis"`
	Logger    logger.Config   `yaml:"logger"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	// Path is the database file for the sqlite driver.
	Path string `yaml:"path"`
}

type LLMConfig struct {
	Provider              string        `yaml:"provider"`
	APIKey                string        `yaml:"api_key"`
	BaseURL               string        `yaml:"base_url"`
	Model                 string        `yaml:"model"`
	Timeout               time.Duration `yaml:"timeout"`
	ExtractionTemperature float32       `yaml:"extraction_temperature"`
	ExtractionMaxTokens   int           `yaml:"extraction_max_tokens"`
	ChatTemperature       float32       `yaml:"chat_temperature"`
	ChatMaxTokens         int           `yaml:"chat_max_tokens"`
}

type StorageConfig struct {
	UploadPath  string `yaml:"upload_path"`
	MaxFileSize int64  `yaml:"max_file_size"`
}

// OCRConfig controls the fallback used for PDFs without a text layer. The
// engine is only linked into binaries built with the ocr tag.
type OCRConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"`
	DPI      int    `yaml:"dpi"`
}

type ChatConfig struct {
	// HistoryLimit caps how many prior messages are replayed to the LLM.
	// Zero replays the whole session.
	HistoryLimit int `yaml:"history_limit"`
}

type RateLimitConfig struct {
	QueryMax    int           `yaml:"query_max"`
	QueryWindow time.Duration `yaml:"query_window"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Env:  "development",
		},
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "resume_parser",
			Path:     "resume_parser.db",
		},
		LLM: LLMConfig{
			Provider:              ProviderGroq,
			Model:                 "llama-3.3-70b-versatile",
			Timeout:               120 * time.Second,
			ExtractionTemperature: 0.3,
			ExtractionMaxTokens:   2048,
			ChatTemperature:       0.3,
			ChatMaxTokens:         1024,
		},
		Storage: StorageConfig{
			UploadPath:  "./uploads",
			MaxFileSize: 10485760,
		},
		OCR: OCRConfig{
			Enabled:  true,
			Language: "eng",
			DPI:      300,
		},
		Chat: ChatConfig{
			HistoryLimit: 20,
		},
		RateLimit: RateLimitConfig{
			QueryMax:    5,
			QueryWindow: time.Minute,
		},
		Logger: logger.Config{
			Level:  "info",
			Format: "pretty",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and finally the environment (including a .env file when present).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found. Using configured values.")
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Env = getEnv("ENV", c.Server.Env)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)

	c.LLM.Provider = getEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.LLM.Timeout)
	c.LLM.ExtractionTemperature = getEnvAsFloat32("LLM_EXTRACTION_TEMPERATURE", c.LLM.ExtractionTemperature)
	c.LLM.ExtractionMaxTokens = getEnvAsInt("LLM_EXTRACTION_MAX_TOKENS", c.LLM.ExtractionMaxTokens)
	c.LLM.ChatTemperature = getEnvAsFloat32("LLM_CHAT_TEMPERATURE", c.LLM.ChatTemperature)
	c.LLM.ChatMaxTokens = getEnvAsInt("LLM_CHAT_MAX_TOKENS", c.LLM.ChatMaxTokens)
	c.LLM.APIKey = getEnv("LLM_API_KEY", c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case ProviderGroq:
			c.LLM.APIKey = os.Getenv("GROQ_API_KEY")
		case ProviderOpenAI:
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case ProviderGemini:
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	c.Storage.UploadPath = getEnv("UPLOAD_PATH", c.Storage.UploadPath)
	c.Storage.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", c.Storage.MaxFileSize)

	c.OCR.Enabled = getEnvAsBool("OCR_ENABLED", c.OCR.Enabled)
	c.OCR.Language = getEnv("OCR_LANGUAGE", c.OCR.Language)
	c.OCR.DPI = getEnvAsInt("OCR_DPI", c.OCR.DPI)

	c.Chat.HistoryLimit = getEnvAsInt("CHAT_HISTORY_LIMIT", c.Chat.HistoryLimit)

	c.RateLimit.QueryMax = getEnvAsInt("QUERY_RATE_LIMIT", c.RateLimit.QueryMax)
	c.RateLimit.QueryWindow = getEnvAsDuration("QUERY_RATE_WINDOW", c.RateLimit.QueryWindow)

	c.Redis.Address = getEnv("REDIS_ADDR", c.Redis.Address)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)

	c.Logger.Level = getEnv("LOG_LEVEL", c.Logger.Level)
	c.Logger.Format = getEnv("LOG_FORMAT", c.Logger.Format)
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	switch c.LLM.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}

	if c.OCR.Enabled && c.OCR.DPI <= 0 {
		return fmt.Errorf("ocr.dpi must be positive")
	}

	if c.Chat.HistoryLimit < 0 {
		return fmt.Errorf("chat.history_limit must not be negative")
	}

	if c.RateLimit.QueryMax <= 0 {
		return fmt.Errorf("rate_limit.query_max must be positive")
	}

	return nil
}

func (c *Config) GetDatabaseDSN() string {
	switch c.Database.Driver {
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.DBName,
		)
	case "sqlite":
		return c.Database.Path
	default:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.Database.Host,
			c.Database.Port,
			c.Database.User,
			c.Database.Password,
			c.Database.DBName,
		)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
