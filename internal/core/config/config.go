package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

// Session 会话令牌（JWT）与 Cookie 设置
type Session struct {
	Secret       string
	Issuer       string
	TTLHours     int
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Cache struct {
	ProfileTTLSec int
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type CORS struct {
	Origins []string
}

type Limits struct {
	RPS          float64
	Burst        int
	Concurrency  int64
	MaxBodyBytes int64
	TimeoutSec   int
	PerIPRPS     float64 // /api/v1 每 IP 限速
	PerIPBurst   int
}

type Admin struct {
	BootstrapEmails []string `mapstructure:"bootstrap_emails"`
}

type Config struct {
	App     App
	Log     Log
	Session Session
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Cache   Cache
	CORS    CORS
	Limits  Limits
	Admin   Admin
}

// Load 读取配置；失败直接退出进程
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}

// Read 读取 yaml + APP_ 前缀环境变量，补默认值并校验
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sample-app")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.maxsizemb", 100)
	v.SetDefault("log.rotate.maxbackups", 7)
	v.SetDefault("log.rotate.maxagedays", 30)

	v.SetDefault("session.issuer", "sample-app")
	v.SetDefault("session.ttlhours", 24*20)
	v.SetDefault("session.cookiename", "session")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:sample-app.db?_foreign_keys=on")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("cache.profilettlsec", 60)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxbodybytes", 1<<20)
	v.SetDefault("limits.timeoutsec", 10)
	v.SetDefault("limits.periprps", 20)
	v.SetDefault("limits.peripburst", 40)
}

// Validate 必填项检查
func (c *Config) Validate() error {
	if c.App.HTTP.Port <= 0 || c.App.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.App.HTTP.Port)
	}
	if len(c.Session.Secret) < 32 {
		return errors.New("session.secret must be at least 32 bytes")
	}
	if c.Session.TTLHours <= 0 {
		return fmt.Errorf("invalid session.ttlhours: %d", c.Session.TTLHours)
	}
	switch c.DB.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported db.driver: %q", c.DB.Driver)
	}
	return nil
}
