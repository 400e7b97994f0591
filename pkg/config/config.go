package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/openagora/agora/internal/llm"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig         `mapstructure:"server"`
	Database   DatabaseConfig       `mapstructure:"database"`
	Generation GenerationConfig     `mapstructure:"generation"`
	Providers  []llm.ProviderConfig `mapstructure:"providers"`
	Publisher  PublisherConfig      `mapstructure:"publisher"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
}

type GenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

type PublisherConfig struct {
	TelegramToken string `mapstructure:"telegram_token"`
	ChatID        int64  `mapstructure:"chat_id"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_in_memory", false)
	v.SetDefault("generation.temperature", 0.7)
	v.SetDefault("generation.max_tokens", 1024)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Database = dbConfig
	}

	// Provider API keys are taken from the environment when present, so
	// keys never need to live in the config file.
	for i := range config.Providers {
		envKey := strings.ToUpper(config.Providers[i].Name) + "_API_KEY"
		if key := v.GetString(envKey); key != "" {
			config.Providers[i].APIKey = key
		}
	}

	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Publisher.TelegramToken = token
	}

	return &config, nil
}
