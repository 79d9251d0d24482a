package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App               App               `mapstructure:",squash"`
	Server            Server            `mapstructure:",squash"`
	Database          Database          `mapstructure:",squash"`
	Redis             Redis             `mapstructure:",squash"`
	Cors              Cors              `mapstructure:",squash"`
	SummaryCacheFlush SummaryCacheFlush `mapstructure:",squash"`
}

type App struct {
	Env       string         `mapstructure:"app_env"`
	LogLevel  string         `mapstructure:"log_level"`
	LogFormat string         `mapstructure:"log_format"`
	Timezone  string         `mapstructure:"timezone"`
	Location  *time.Location `mapstructure:"-"`
}

type Server struct {
	Host              string        `mapstructure:"host"`
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type Database struct {
	DSN         string `mapstructure:"-"`
	Driver      string `mapstructure:"database_driver"`
	Password    string `mapstructure:"database_password"`
	URL         string `mapstructure:"database_url"`
	User        string `mapstructure:"database_user"`
	SSLMode     string `mapstructure:"database_ssl_mode"`
	AutoMigrate bool   `mapstructure:"database_auto_migrate"`
}

// Redis guarda a conexão usada pelo cache de resumos. Com Enabled=false o
// serviço roda sem cache.
type Redis struct {
	Enabled  bool   `mapstructure:"redis_enabled"`
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type SummaryCacheFlush struct {
	CronSchedule string `mapstructure:"summary_cache_flush_cron"`
	Enabled      bool   `mapstructure:"summary_cache_flush_enabled"`
}

func SetDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("TIMEZONE", "Local")

	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("READ_HEADER_TIMEOUT", "2s")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "15s")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/marketplace")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_SSL_MODE", "disable")
	viper.SetDefault("DATABASE_AUTO_MIGRATE", false)

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	// Limpeza do cache de resumos à meia-noite
	viper.SetDefault("SUMMARY_CACHE_FLUSH_CRON", "0 0 * * *")
	viper.SetDefault("SUMMARY_CACHE_FLUSH_ENABLED", false)
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env): ", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.finalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// finalize preenche os campos derivados (DSN, fuso horário) e valida o que não
// pode ficar vazio.
func (c *Config) finalize() error {
	location, err := loadLocation(c.App.Timezone)
	if err != nil {
		return fmt.Errorf("config: fuso horário inválido %q: %w", c.App.Timezone, err)
	}
	c.App.Location = location

	if c.Server.Port == "" {
		return fmt.Errorf("config: PORT é obrigatório")
	}

	origins := make([]string, 0, len(c.Cors.AllowedOrigins))
	for _, origin := range c.Cors.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.Cors.AllowedOrigins = origins

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s?sslmode=%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
		c.Database.SSLMode,
	)

	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
