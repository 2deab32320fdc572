package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Sync     SyncConfig     `mapstructure:"sync"`
}

// ServerConfig 同步服务配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path                    string        `mapstructure:"path"`
	LogLevel                string        `mapstructure:"log_level"` // silent / error / warn / info
	BusyTimeoutMS           int           `mapstructure:"busy_timeout_ms"`
	OperationTimeoutSeconds int           `mapstructure:"operation_timeout_seconds"` // 等待串行门的超时，0 表示不限
	OperationTimeout        time.Duration `mapstructure:"-"`
}

// SyncConfig 设备同步配置
type SyncConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Secret          string        `mapstructure:"secret"`
	ExpireHours     int           `mapstructure:"expire_hours"`
	ExpireTime      time.Duration `mapstructure:"-"`
	PairingHash     string        `mapstructure:"pairing_hash"`
	PairMaxAttempts int           `mapstructure:"pair_max_attempts"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("警告: 无法读取指定配置文件 %s: %v", configPath, err)
		} else {
			log.Printf("已合并外部配置文件: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("$HOME/.budget")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("警告: 合并外部配置失败: %v", err)
			} else {
				log.Printf("已合并外部配置文件: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖，如 BUDGET_DATABASE_PATH
	v.SetEnvPrefix("BUDGET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.normalize()

	GlobalConfig = &cfg
	return &cfg, nil
}

func (c *Config) normalize() {
	if c.Database.Path == "" {
		c.Database.Path = "./data/budget.db"
	}
	if c.Database.BusyTimeoutMS < 0 {
		c.Database.BusyTimeoutMS = 0
	}
	if c.Database.OperationTimeoutSeconds > 0 {
		c.Database.OperationTimeout = time.Duration(c.Database.OperationTimeoutSeconds) * time.Second
	}
	if c.Sync.ExpireHours <= 0 {
		c.Sync.ExpireHours = 24
	}
	c.Sync.ExpireTime = time.Duration(c.Sync.ExpireHours) * time.Hour
	if c.Sync.PairMaxAttempts <= 0 {
		c.Sync.PairMaxAttempts = 5
	}
}

// MustLoadConfig 加载配置，失败则 panic
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	return cfg
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("配置未初始化，请先调用 LoadConfig")
	}
	return GlobalConfig
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("当前配置:")
	log.Printf("  数据库: %s (日志级别: %s)", GlobalConfig.Database.Path, GlobalConfig.Database.LogLevel)
	log.Printf("  同步服务: %v (%s, 模式: %s)", GlobalConfig.Sync.Enabled, GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  配对密钥: %v", GlobalConfig.Sync.PairingHash != "")
}

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
