package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию HTTP сервиса генерации историй
type Config struct {
	// Настройки HTTP сервера
	ServerPort      string        `envconfig:"SERVER_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:8501"`

	// Настройки логирования
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// Настройки AI
	AIProvider string        `envconfig:"AI_PROVIDER" default:"openai"` // openai | gemini | ollama
	AIBaseURL  string        `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AIModel    string `envconfig:"AI_MODEL" default:"deepseek/deepseek-chat"`
	AIWorkers  int    `envconfig:"AI_WORKERS" default:"4"`
	AIAPIKey   string `envconfig:"AI_API_KEY"`

	// Настройки PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword    string        `envconfig:"DB_PASSWORD"`
	DBName        string        `envconfig:"DB_NAME" default:"nineties_db"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// GetMaskedDSN возвращает DSN с замаскированным паролем для логирования
func (c *Config) GetMaskedDSN() string {
	dsn := c.GetDSN()
	parts := strings.Split(dsn, "@")
	if len(parts) != 2 {
		return "[invalid dsn format]"
	}
	userInfo := strings.Split(parts[0], ":")
	if len(userInfo) >= 2 {
		userInfo[len(userInfo)-1] = "********"
	}
	return strings.Join(userInfo, ":") + "@" + parts[1]
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if cfg.AIProvider != "ollama" && cfg.AIAPIKey == "" {
		return nil, fmt.Errorf("AI_API_KEY is required for provider %q", cfg.AIProvider)
	}
	if cfg.AIWorkers <= 0 {
		cfg.AIWorkers = 4
	}

	return &cfg, nil
}
