// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RateLimit               `yaml:"rate_limit"`
	PaymentProvider         `yaml:"payment_provider"`
	SMTP                    `yaml:"smtp"`
	Departments             `yaml:"departments"`
	CORSAllowedOrigins      []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"ADDRESS_HTTP" env-default:"0.0.0.0:5000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"ADDRESS_REDIS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"168h"`
}

// RateLimit структура для глобального ограничения количества запросов:
// не более Requests запросов от одного клиента за окно Window.
type RateLimit struct {
	Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS" env-default:"100"`
	Window   time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"15m"`
}

// PaymentProvider структура с учетными данными платёжного провайдера
type PaymentProvider struct {
	SecretKey     string `yaml:"secret_key" env:"PAYMENT_SECRET_KEY"`
	WebhookSecret string `yaml:"webhook_secret" env:"PAYMENT_WEBHOOK_SECRET"`
	APIURL        string `yaml:"api_url" env:"PAYMENT_API_URL" env-default:"https://api.payments.example.com/v1"`
}

// SMTP структура для настройки исходящей почты
type SMTP struct {
	SMTPHost string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"smtp_port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPass string `yaml:"smtp_pass" env:"SMTP_PASS"`
}

// Departments адреса команд, на которые рассылаются уведомления
type Departments struct {
	ContactEmail  string `yaml:"contact_email" env:"CONTACT_EMAIL" env-default:"contact@star-housekeeping.com"`
	SalesEmail    string `yaml:"sales_email" env:"SALES_EMAIL" env-default:"sales@star-housekeeping.com"`
	SupportEmail  string `yaml:"support_email" env:"SUPPORT_EMAIL" env-default:"support@star-housekeeping.com"`
	BillingEmail  string `yaml:"billing_email" env:"BILLING_EMAIL" env-default:"billing@star-housekeeping.com"`
	FeedbackEmail string `yaml:"feedback_email" env:"FEEDBACK_EMAIL" env-default:"feedback@star-housekeeping.com"`
	ContactPhone  string `yaml:"contact_phone" env:"CONTACT_PHONE" env-default:"+1-800-HOUSEKEEPING"`
}

// MustLoad функция для загрузки конфига, путь берется из переменной окружения CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
