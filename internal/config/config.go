// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	// Встроенная база часовых поясов для образов без tzdata.
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	// Timezone часовой пояс, в котором администратор вводит время событий.
	Timezone        string `yaml:"timezone" env:"TIMEZONE" env-default:"UTC"`
	CalendarName    string `yaml:"calendar_name" env-default:"Wellness events"`
	RedisConnection `yaml:"redis_connection"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwttoken"`
	Admin           `yaml:"admin"`
	Forms           `yaml:"forms"`
	RabbitMQ        `yaml:"rabbitmq"`
	Scheduler       `yaml:"scheduler"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// RateLimit и RateBurst ограничивают вход и изменяющие запросы администратора.
	RateLimit float64 `yaml:"rate_limit" env-default:"5"`
	RateBurst int     `yaml:"rate_burst" env-default:"10"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"12h"`
}

// Admin учётные данные администратора. Хеш пароля можно получить командой eventsctl hash-password.
type Admin struct {
	AdminUsername     string `yaml:"username" env:"ADMIN_USERNAME"`
	AdminPasswordHash string `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
}

// Forms настройки сессий формы событий
type Forms struct {
	SessionTTL    time.Duration `yaml:"session_ttl" env-default:"2h"`
	SubmitTimeout time.Duration `yaml:"submit_timeout" env-default:"30s"`
}

// RabbitMQ настройки подключения к брокеру
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Scheduler настройки планировщика переходов статуса
type Scheduler struct {
	Cron string `yaml:"cron" env-default:"@every 1m"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг, сгенерированный из config/config.go
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла, значения из окружения имеют приоритет.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// Location возвращает часовой пояс ввода времени событий.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Timezone: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  RateLimit: %.2f/s burst %d\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Admin:\n"+
			"  Username: %s\n"+
			"Forms:\n"+
			"  SessionTTL: %s\n"+
			"  SubmitTimeout: %s\n"+
			"Scheduler:\n"+
			"  Cron: %s\n",
		c.Env,
		c.Timezone,
		c.AddressRedis,
		c.User,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.RateLimit,
		c.RateBurst,
		c.TokenTTL,
		c.AdminUsername,
		c.SessionTTL,
		c.SubmitTimeout,
		c.Cron,
	)
}
