// Package config содержит логику чтения конфигурации CLI-клиента nodeless.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config содержит параметры подключения к API nodeless.io.
type Config struct {
	APIKey      string `env:"NODELESS_API_KEY"`
	BaseURL     string `env:"NODELESS_BASE_URL"`
	StoreID     string `env:"NODELESS_STORE_ID"`
	Development bool   `env:"NODELESS_DEV"`
}

// Load считывает конфигурацию из файла .env и переменных окружения.
// Отсутствие файла .env ошибкой не считается.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
