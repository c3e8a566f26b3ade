package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingDatabase = errors.New("缺少数据库配置 DB_HOST / DB_NAME")
	ErrMissingSecret   = errors.New("已启用认证但未配置 JWT_SECRET")
)

// Settings 应用配置，来源依次为默认值、config/config.yaml、环境变量（含 .env）
type Settings struct {
	Env            string            `mapstructure:"env"`
	Port           string            `mapstructure:"port"`
	TrustedProxies []string          `mapstructure:"trusted_proxies"`
	CorsOrigins    []string          `mapstructure:"cors_origins"`
	DB             DBSettings        `mapstructure:"database"`
	Redis          RedisSettings     `mapstructure:"redis"`
	Stats          StatsSettings     `mapstructure:"stats"`
	Auth           AuthSettings      `mapstructure:"auth"`
	RateLimit      RateLimitSettings `mapstructure:"rate_limit"`
}

type DBSettings struct {
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Host            string        `mapstructure:"host"`
	Name            string        `mapstructure:"name"`
	TablePrefix     string        `mapstructure:"table_prefix"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN 与原有 InitDB 拼接方式保持一致
func (db DBSettings) DSN() (string, error) {
	if db.Host == "" || db.Name == "" {
		return "", ErrMissingDatabase
	}
	return db.User + ":" + db.Password + "@tcp(" + db.Host + ")/" + db.Name +
		"?parseTime=true&loc=Local&tls=preferred", nil
}

type RedisSettings struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type StatsSettings struct {
	Workers        int           `mapstructure:"workers"`          // 并行统计的题目数
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`        // 报告缓存有效期
	CachePurgeCron string        `mapstructure:"cache_purge_cron"` // 定时清理缓存
}

type AuthSettings struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

type RateLimitSettings struct {
	Limit float64 `mapstructure:"limit"` // 每秒请求数
	Burst int     `mapstructure:"burst"`
}

func (s *Settings) IsProduction() bool {
	return strings.EqualFold(s.Env, "production")
}

// Load 读取配置
func Load() (*Settings, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetDefault("env", "development")
	v.SetDefault("port", "11222")
	v.SetDefault("trusted_proxies", []string{"127.0.0.1"})
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("database.table_prefix", "lime_")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.conn_max_idle_time", "2m")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("stats.workers", 4)
	v.SetDefault("stats.cache_ttl", "10m")
	v.SetDefault("stats.cache_purge_cron", "0 * * * *")
	v.SetDefault("auth.enabled", true)
	v.SetDefault("rate_limit.limit", 20)
	v.SetDefault("rate_limit.burst", 40)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 沿用原有的环境变量名
	_ = v.BindEnv("env", "ENV")
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("trusted_proxies", "TRUSTED_PROXIES")
	_ = v.BindEnv("cors_origins", "CORS_ORIGINS")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.table_prefix", "DB_TABLE_PREFIX")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	return &cfg, nil
}
