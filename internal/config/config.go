package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"problem-tracker/pkg/utils"
)

// Config 对应 config.yaml
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	Log    LogConfig    `mapstructure:"log"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Cron   CronConfig   `mapstructure:"cron"`
	I18n   I18nConfig   `mapstructure:"i18n"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr" validate:"required"`
	AllowOrigin string `mapstructure:"allow_origin" validate:"required"`
}

// DataConfig 两份 JSON 文档的位置
type DataConfig struct {
	Dir             string `mapstructure:"dir" validate:"required"`
	ProblemsFile    string `mapstructure:"problems_file" validate:"required"`
	StatusFile      string `mapstructure:"status_file" validate:"required"`
	CreateIfMissing bool   `mapstructure:"create_if_missing"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Path       string `mapstructure:"path" validate:"required"`
	MaxSize    int    `mapstructure:"max_size" validate:"gt=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"gt=0"`
	Compress   bool   `mapstructure:"compress"`
}

// RedisConfig 读接口快照缓存，关闭时直接读文档
type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Addr        string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password    string        `mapstructure:"password"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl" validate:"gte=0"`
}

type CronConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Summary string `mapstructure:"summary" validate:"required_if=Enabled true"`
}

type I18nConfig struct {
	Dir       string   `mapstructure:"dir" validate:"required"`
	Default   string   `mapstructure:"default" validate:"required"`
	Languages []string `mapstructure:"languages" validate:"min=1,dive,required"`
}

// SetDefaults 没有配置文件时也能启动
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allow_origin", "*")

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.problems_file", "problems.json")
	v.SetDefault("data.status_file", "problemStatus.json")
	v.SetDefault("data.create_if_missing", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "logs/tracker.log")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.snapshot_ttl", "10m")

	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.summary", "0 * * * *")

	v.SetDefault("i18n.dir", "i18n")
	v.SetDefault("i18n.default", "en")
	v.SetDefault("i18n.languages", []string{"en", "zh"})
}

// Load 读取配置文件（path 为空时在工作目录查找 config.yaml），
// TRACKER_ 前缀的环境变量覆盖文件内容
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := utils.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
