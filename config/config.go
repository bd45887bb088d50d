package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server struct {
		Port        int
		MetricsPort int
	}
	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}
	JWT struct {
		SecretKey string
		ExpiresIn int // в часах
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	Auth struct {
		PasswordMinLength int
	}
	AccountNumber struct {
		RetryLimit int // попытки генерации номера при коллизии
	}
	Transaction struct {
		RetryLimit int // попытки повтора при конфликте сериализации
	}
	History struct {
		PageSizeDefault int
		PageSizeMax     int
	}
}

// NewConfig создает новый экземпляр конфигурации.
// Значения читаются из переменных окружения, опционально из config.yaml.
func NewConfig() (*Config, error) {
	v := viper.New()

	// Значения по умолчанию
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 8081)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "bank_db")
	v.SetDefault("jwt.secret_key", "your-secret-key-here")
	v.SetDefault("jwt.expires_in", 24)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "your-email@gmail.com")
	v.SetDefault("smtp.password", "your-app-password")
	v.SetDefault("smtp.from", "your-email@gmail.com")
	v.SetDefault("auth.password_min_length", 8)
	v.SetDefault("account_number.retry_limit", 8)
	v.SetDefault("transaction.retry_limit", 5)
	v.SetDefault("history.page_size.default", 10)
	v.SetDefault("history.page_size.max", 100)

	// Переменные окружения вида DB_HOST, JWT_SECRET_KEY и т.д.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Опциональный файл конфигурации рядом с бинарником
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	cfg := &Config{}
	cfg.Server.Port = v.GetInt("server.port")
	cfg.Server.MetricsPort = v.GetInt("server.metrics_port")
	cfg.DB.Host = v.GetString("db.host")
	cfg.DB.Port = v.GetInt("db.port")
	cfg.DB.User = v.GetString("db.user")
	cfg.DB.Password = v.GetString("db.password")
	cfg.DB.DBName = v.GetString("db.name")
	cfg.JWT.SecretKey = v.GetString("jwt.secret_key")
	cfg.JWT.ExpiresIn = v.GetInt("jwt.expires_in")
	cfg.SMTP.Host = v.GetString("smtp.host")
	cfg.SMTP.Port = v.GetInt("smtp.port")
	cfg.SMTP.Username = v.GetString("smtp.username")
	cfg.SMTP.Password = v.GetString("smtp.password")
	cfg.SMTP.From = v.GetString("smtp.from")
	cfg.Auth.PasswordMinLength = v.GetInt("auth.password_min_length")
	cfg.AccountNumber.RetryLimit = v.GetInt("account_number.retry_limit")
	cfg.Transaction.RetryLimit = v.GetInt("transaction.retry_limit")
	cfg.History.PageSizeDefault = v.GetInt("history.page_size.default")
	cfg.History.PageSizeMax = v.GetInt("history.page_size.max")

	if cfg.Transaction.RetryLimit < 1 {
		return nil, fmt.Errorf("transaction.retry_limit должен быть не меньше 1")
	}
	if cfg.AccountNumber.RetryLimit < 1 {
		return nil, fmt.Errorf("account_number.retry_limit должен быть не меньше 1")
	}

	return cfg, nil
}
