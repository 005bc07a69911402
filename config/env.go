package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/govdbot/govfuni/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var Env = GetDefaultConfig()

// Load reads .env (when present), the environment and ext-cfg.yaml.
func Load() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	if err := LoadEnv(); err != nil {
		return err
	}
	return LoadExtractorConfigs()
}

func LoadEnv() error {
	if value := os.Getenv("LOG_LEVEL"); value != "" {
		Env.LogLevel = value
	}
	if value := os.Getenv("LOG_FILE"); value != "" {
		logFile, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("LOG_FILE env is not a valid boolean: %w", err)
		}
		Env.LogFile = logFile
	}
	if value := os.Getenv("CACHING"); value != "" {
		caching, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("CACHING env is not a valid boolean: %w", err)
		}
		Env.Caching = caching
	}
	if value := os.Getenv("DB_HOST"); value != "" {
		Env.DBHost = value
	}
	if value := os.Getenv("DB_PORT"); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("DB_PORT env is not a valid integer: %w", err)
		}
		Env.DBPort = port
	}
	if value := os.Getenv("DB_NAME"); value != "" {
		Env.DBName = value
	}
	if value := os.Getenv("DB_USER"); value != "" {
		Env.DBUser = value
	}
	if value := os.Getenv("DB_PASSWORD"); value != "" {
		Env.DBPassword = value
	}
	if Env.Caching && Env.DBPassword == "" {
		zap.S().Warn("CACHING is enabled but DB_PASSWORD is not set")
	}
	if value := os.Getenv("HTTP_PROXY"); value != "" {
		Env.HTTPProxy = value
	}
	if value := os.Getenv("HTTPS_PROXY"); value != "" {
		Env.HTTPSProxy = value
	}
	if value := os.Getenv("NO_PROXY"); value != "" {
		Env.NoProxy = value
	}
	if value := os.Getenv("COOKIES_DIR"); value != "" {
		Env.CookiesDirectory = value
	}
	if value := os.Getenv("FUNIMATION_EMAIL"); value != "" {
		Env.FunimationEmail = value
	}
	if value := os.Getenv("FUNIMATION_PASSWORD"); value != "" {
		Env.FunimationPassword = value
	}
	if Env.FunimationEmail != "" && Env.FunimationPassword == "" {
		zap.S().Warn("FUNIMATION_EMAIL is set without FUNIMATION_PASSWORD, login will be skipped")
	}
	return nil
}

func GetDefaultConfig() *models.EnvConfig {
	return &models.EnvConfig{
		DBHost: "localhost",
		DBPort: 3306,
		DBName: "govfuni",
		DBUser: "govfuni",

		CookiesDirectory: "cookies",
		LogLevel:         "info",
	}
}
