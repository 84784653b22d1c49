package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig            `mapstructure:"server"`   // 服务器配置
	Log      LogConfig               `mapstructure:"log"`      // 日志配置
	Postgres PostgresConfig          `mapstructure:"postgres"` // Postgres配置（响应缓存）
	Cache    CacheConfig             `mapstructure:"cache"`    // 响应缓存配置
	Schedule ScheduleConfig          `mapstructure:"schedule"` // 赛程解析配置
	Sources  map[string]SourceConfig `mapstructure:"sources"`  // 各赛程数据源独立配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"` // debug/info/warn/error
}

// PostgresConfig Postgres数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// CacheConfig 上游响应缓存配置，关闭时每次请求都直连上游
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"` // 缓存有效期
}

// ScheduleConfig 赛程解析配置
type ScheduleConfig struct {
	FirstPrimaryYear int    `mapstructure:"first_primary_year"` // 主数据源覆盖的第一个赛季
	WarmupCron       string `mapstructure:"warmup_cron"`        // 缓存预热Cron表达式，为空则不预热
}

// SourceConfig 单个数据源的独立配置
type SourceConfig struct {
	BaseURL    string  `mapstructure:"base_url"`    // API基础地址
	Timeout    int     `mapstructure:"timeout"`     // 请求超时（秒）
	RetryCount int     `mapstructure:"retry_count"` // 重试次数
	Proxy      string  `mapstructure:"proxy"`       // 代理地址
	RateLimit  float64 `mapstructure:"rate_limit"`  // 每秒请求数，<=0 不限速
	RateBurst  int     `mapstructure:"rate_burst"`  // 突发请求数
	UserAgent  string  `mapstructure:"user_agent"`  // 请求UA
}

const (
	SourcePrimary = "primary"
	SourceErgast  = "ergast"

	DefaultPrimaryBaseURL   = "https://raw.githubusercontent.com/theOehrly/f1schedule/master"
	DefaultErgastBaseURL    = "https://api.jolpi.ca/ergast/f1"
	DefaultFirstPrimaryYear = 2018
)

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return decode(v)
}

// LoadFile 从指定路径加载配置，便于测试与多环境部署
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	v.SetTypeByDefaultValue(true)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyDefaults(&cfg)
	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SCHEDULE_PROXY"); v != "" {
		for name, src := range cfg.Sources {
			src.Proxy = v
			cfg.Sources[name] = src
		}
	}
}

// applyDefaults 未配置项填默认值；未声明任何数据源时使用两个公共数据源
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 12 * time.Hour
	}
	if cfg.Schedule.FirstPrimaryYear == 0 {
		cfg.Schedule.FirstPrimaryYear = DefaultFirstPrimaryYear
	}
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]SourceConfig)
	}
	if _, ok := cfg.Sources[SourcePrimary]; !ok {
		cfg.Sources[SourcePrimary] = SourceConfig{BaseURL: DefaultPrimaryBaseURL}
	}
	if _, ok := cfg.Sources[SourceErgast]; !ok {
		// Ergast 镜像限速 4 次/秒
		cfg.Sources[SourceErgast] = SourceConfig{BaseURL: DefaultErgastBaseURL, RateLimit: 4, RateBurst: 4}
	}
	for name, src := range cfg.Sources {
		if src.Timeout <= 0 {
			src.Timeout = 10
		}
		if src.RetryCount < 0 {
			src.RetryCount = 0
		}
		if src.RateBurst <= 0 {
			src.RateBurst = 1
		}
		cfg.Sources[name] = src
	}
}

// GetGORMConfig 获取Postgres配置（适配GORM）
func (p *PostgresConfig) GetGORMConfig() gorm.Config {
	return gorm.Config{} // 可扩展：添加日志、命名策略等
}
