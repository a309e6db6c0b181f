package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	defaultConfigFile = "values_local.yaml"
	configDir         = "configs/"
)

// Config - неизменяемая конфигурация процесса. Загружается один раз на старте
// и раздаётся компонентам через fx только на чтение.
type Config struct {
	Service ServiceConfig `mapstructure:"service" yaml:"service"`
	OKX     OKXConfig     `mapstructure:"okx" yaml:"okx"`
	Trading TradingConfig `mapstructure:"trading" yaml:"trading"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`

	// DB - DSN журнала исходящих вызовов. Пусто => журнал выключен.
	DB string `mapstructure:"db_dsn" yaml:"db_dsn"`

	Journal  JournalConfig  `mapstructure:"journal" yaml:"journal"`
	Telegram TelegramConfig `mapstructure:"telegram" yaml:"telegram"`
}

type ServiceConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	Env  string `mapstructure:"env" yaml:"env"`
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

type OKXConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	SecretKey  string `mapstructure:"secret_key" yaml:"secret_key"`
	Passphrase string `mapstructure:"passphrase" yaml:"passphrase"`
	// Paper - демо-торговля, уходит заголовком x-simulated-trading: 1
	Paper         bool          `mapstructure:"paper" yaml:"paper"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UseServerTime bool          `mapstructure:"use_server_time" yaml:"use_server_time"`
}

// TradingConfig - дефолты для полей интента, которые клиент может не прислать.
type TradingConfig struct {
	InstType      string `mapstructure:"inst_type" yaml:"inst_type"`
	TdMode        string `mapstructure:"td_mode" yaml:"td_mode"`
	OrdType       string `mapstructure:"ord_type" yaml:"ord_type"`
	TriggerPxType string `mapstructure:"trigger_px_type" yaml:"trigger_px_type"`
	BalanceCcy    string `mapstructure:"balance_ccy" yaml:"balance_ccy"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Encoding    string `mapstructure:"encoding" yaml:"encoding"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

type TracingConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Host    string `mapstructure:"host" yaml:"host"`
	Port    int    `mapstructure:"port" yaml:"port"`
}

type JournalConfig struct {
	Buffer int `mapstructure:"buffer" yaml:"buffer"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token" yaml:"token"`
	ChatID int64  `mapstructure:"chat_id" yaml:"chat_id"`
}

func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = defaultConfigFile
	}
	return Load(configDir + configFileName)
}

// Load читает defaults -> yaml-файл (если есть) -> .env -> переменные окружения.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// имена из старого прокси
	_ = v.BindEnv("okx.paper", "OKX_PAPER", "PAPER")
	_ = v.BindEnv("service.port", "SERVICE_PORT", "PORT")
	_ = v.BindEnv("telegram.token", "TELEGRAM_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	_ = v.BindEnv("db_dsn", "DATABASE_DSN")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.OKX.BaseURL = strings.TrimRight(cfg.OKX.BaseURL, "/")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "okx-exec-proxy")
	v.SetDefault("service.env", "dev")
	v.SetDefault("service.host", "")
	v.SetDefault("service.port", 10000)

	v.SetDefault("okx.base_url", "https://www.okx.com")
	v.SetDefault("okx.api_key", "")
	v.SetDefault("okx.secret_key", "")
	v.SetDefault("okx.passphrase", "")
	v.SetDefault("okx.paper", false)
	v.SetDefault("okx.timeout", "15s")
	v.SetDefault("okx.use_server_time", true)

	v.SetDefault("trading.inst_type", "SWAP")
	v.SetDefault("trading.td_mode", "cross")
	v.SetDefault("trading.ord_type", "market")
	v.SetDefault("trading.trigger_px_type", "last")
	v.SetDefault("trading.balance_ccy", "USDT")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.development", false)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)

	v.SetDefault("db_dsn", "")
	v.SetDefault("journal.buffer", 256)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
}

// Addr - адрес для http-сервера.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.Port)
}

// Redacted отдаёт эффективный конфиг в yaml без секретов, для лога на старте.
func (c *Config) Redacted() ([]byte, error) {
	cp := *c
	cp.OKX.APIKey = mask(cp.OKX.APIKey)
	cp.OKX.SecretKey = mask(cp.OKX.SecretKey)
	cp.OKX.Passphrase = mask(cp.OKX.Passphrase)
	cp.Telegram.Token = mask(cp.Telegram.Token)
	if cp.DB != "" {
		cp.DB = "***"
	}
	return yaml.Marshal(cp)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "***"
	}
	return s[:2] + "***" + s[len(s)-2:]
}
