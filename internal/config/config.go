package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config содержит конфигурацию сервера
// Читается из YAML файла, переменные окружения имеют приоритет
type Config struct {
	Env        string `yaml:"env" env:"APP_ENV" env-default:"local"`
	DB         DB     `yaml:"db"`
	HTTPServer Server `yaml:"http_server"`
	JWT        JWT    `yaml:"jwt"`
	RateLimit  Limits `yaml:"rate_limit"`
}

// DB содержит настройки хранилища
type DB struct {
	Path string `yaml:"path" env:"DB_PATH" env-default:"postboard.db"`
}

// Server содержит настройки HTTP сервера
type Server struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

// JWT содержит секреты и времена жизни токенов
// Секреты обязательны: дефолтов для них нет намеренно
type JWT struct {
	AccessSecret  string        `yaml:"access_secret" env:"JWT_ACCESS_SECRET" env-required:"true"`
	RefreshSecret string        `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET" env-required:"true"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL" env-default:"15m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL" env-default:"168h"`
}

// Limits содержит настройки rate limiting
type Limits struct {
	DefaultRate   int           `yaml:"default_rate" env-default:"100"`
	DefaultWindow time.Duration `yaml:"default_window" env-default:"1m"`
	AuthRate      int           `yaml:"auth_rate" env-default:"10"`
	AuthWindow    time.Duration `yaml:"auth_window" env-default:"1m"`
}

// MustLoad загружает конфигурацию или паникует
// Путь берется из CONFIG_PATH, по умолчанию config.yaml
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	config, err := load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	return config
}

func load(path string) (*Config, error) {
	var config Config

	if _, err := os.Stat(path); err != nil {
		// Файла нет — читаем только из окружения
		if err := cleanenv.ReadEnv(&config); err != nil {
			return nil, err
		}
		return &config, nil
	}

	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return fmt.Errorf("access and refresh secrets must differ")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.JWT.AccessTTL >= c.JWT.RefreshTTL {
		return fmt.Errorf("access TTL must be shorter than refresh TTL")
	}
	return nil
}
