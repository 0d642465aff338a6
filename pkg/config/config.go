// Пакет config загружает конфигурацию ассистента из YAML-файла
// с подстановкой переменных окружения.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ModelDef описывает подключение к OpenAI-совместимому API.
type ModelDef struct {
	Provider    string        `yaml:"provider"`
	ModelName   string        `yaml:"model_name"`
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	RateLimit   int           `yaml:"rate_limit"`
	BurstLimit  int           `yaml:"burst_limit"`
}

// DatabaseConfig описывает локальную базу данных продаж.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ExportConfig описывает S3-совместимое хранилище для выгрузки отчётов.
type ExportConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled сообщает, настроена ли выгрузка отчётов.
func (e ExportConfig) Enabled() bool {
	return e.Endpoint != "" && e.Bucket != ""
}

// AppSpecific содержит прочие настройки приложения.
type AppSpecific struct {
	Debug bool `yaml:"debug"`
}

// AppConfig — корневая структура конфигурации.
type AppConfig struct {
	LLM      ModelDef       `yaml:"llm"`
	DemoMode bool           `yaml:"demo_mode"`
	Database DatabaseConfig `yaml:"database"`
	Export   ExportConfig   `yaml:"export"`
	App      AppSpecific    `yaml:"app"`
}

// Значения по умолчанию совпадают с поведением демо-приложения.
const (
	DefaultModelName   = "kaz-22a"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 500
	DefaultTimeout     = 30 * time.Second
	DefaultRateLimit   = 60
	DefaultBurstLimit  = 2
	DefaultDBPath      = "healthcare_demo.db"
)

// applyDefaults заполняет незаданные поля значениями по умолчанию.
func (c *AppConfig) applyDefaults() {
	if c.LLM.ModelName == "" {
		c.LLM.ModelName = DefaultModelName
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = DefaultTemperature
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = DefaultMaxTokens
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = DefaultTimeout
	}
	if c.LLM.RateLimit == 0 {
		c.LLM.RateLimit = DefaultRateLimit
	}
	if c.LLM.BurstLimit == 0 {
		c.LLM.BurstLimit = DefaultBurstLimit
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}
}

// validate проверяет согласованность конфигурации. Отсутствие API-ключа
// ошибкой не считается: ассистент в этом случае работает в демо-режиме.
func (c *AppConfig) validate() error {
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must be non-negative, got %d", c.LLM.MaxTokens)
	}
	if c.Export.Endpoint != "" && c.Export.Bucket == "" {
		return fmt.Errorf("export.bucket is required when export.endpoint is set")
	}
	return nil
}

// Load читает конфигурацию из файла. Переменные окружения вида
// ${OPENAI_API_KEY} разворачиваются до разбора YAML.
func Load(path string) (*AppConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// FromEnv собирает конфигурацию из переменных окружения без файла.
// Используется, когда ассистент запущен без флага -config.
func FromEnv() *AppConfig {
	cfg := &AppConfig{
		LLM: ModelDef{
			Provider: "openai",
			BaseURL:  os.Getenv("OPENAI_BASE_URL"),
			APIKey:   os.Getenv("OPENAI_API_KEY"),
		},
		Database: DatabaseConfig{
			Path: os.Getenv("HEALTHCARE_DB"),
		},
	}
	if v := os.Getenv("DEMO_MODE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.DemoMode = parsed
		}
	}
	cfg.applyDefaults()
	return cfg
}
