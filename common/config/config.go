package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	Conf   *Config
	confMu sync.RWMutex
)

type Config struct {
	AppName    string         `mapstructure:"appName"`
	MetricPort int            `mapstructure:"metricPort"` // statsviz 端口，0 表示不开启
	Log        LogConf        `mapstructure:"log"`
	Rules      RulesConf      `mapstructure:"rules"`
	Database   DatabaseConf   `mapstructure:"database"`
	Nats       NatsConfig     `mapstructure:"nats"`
	Simulation SimulationConf `mapstructure:"simulation"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// RulesConf 对局规则，只影响新建的牌桌
type RulesConf struct {
	RedFives      bool   `mapstructure:"redFives"`
	OpenTanyao    bool   `mapstructure:"openTanyao"`
	Length        string `mapstructure:"length"` // "tonpu" 东风战 / "hanchan" 半庄战
	InitialPoints int    `mapstructure:"initialPoints"`
	Busting       bool   `mapstructure:"busting"`
	DoubleYakuman bool   `mapstructure:"doubleYakuman"`
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type RedisConf struct {
	Addr          string   `mapstructure:"addr"`
	ClusterAddrs  []string `mapstructure:"clusterAddrs"`
	Password      string   `mapstructure:"password"`
	PoolSize      int      `mapstructure:"poolSize"`
	MinIdleConns  int      `mapstructure:"minIdleConns"`
	SnapshotTTL   int      `mapstructure:"snapshotTTL"`   // 单位是秒，0 表示不过期
	SnapshotEvery int64    `mapstructure:"snapshotEvery"` // 每隔多少步写快照，0 表示只在一局结束时写
}

type NatsConfig struct {
	URL     string `json:"url" mapstructure:"url"`
	Subject string `json:"subject" mapstructure:"subject"`
}

// SimulationConf 自对局模拟参数（cmd simulate 使用）
type SimulationConf struct {
	Tables         int   `mapstructure:"tables"`
	Seed           int64 `mapstructure:"seed"`
	MaxSteps       int   `mapstructure:"maxSteps"`
	MonitorSeconds int   `mapstructure:"monitorSeconds"` // 负载日志间隔，0 表示不开启
}

// Default 不依赖配置文件的默认配置
func Default() *Config {
	return &Config{
		AppName: "riichi",
		Log:     LogConf{Level: "info"},
		Rules: RulesConf{
			RedFives:      true,
			OpenTanyao:    true,
			Length:        "hanchan",
			InitialPoints: 25000,
			Busting:       true,
			DoubleYakuman: true,
		},
		Database: DatabaseConf{
			MongoConf: MongoConf{Db: "riichi", MinPoolSize: 1, MaxPoolSize: 10},
			RedisConf: RedisConf{PoolSize: 10, MinIdleConns: 1},
		},
		Nats:       NatsConfig{Subject: "riichi.table"},
		Simulation: SimulationConf{Tables: 4, Seed: 1, MaxSteps: 20000, MonitorSeconds: 5},
	}
}

func newViper(configFile string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	def := Default()
	v.SetDefault("appName", def.AppName)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("rules.redFives", def.Rules.RedFives)
	v.SetDefault("rules.openTanyao", def.Rules.OpenTanyao)
	v.SetDefault("rules.length", def.Rules.Length)
	v.SetDefault("rules.initialPoints", def.Rules.InitialPoints)
	v.SetDefault("rules.busting", def.Rules.Busting)
	v.SetDefault("rules.doubleYakuman", def.Rules.DoubleYakuman)
	v.SetDefault("database.mongo.db", def.Database.MongoConf.Db)
	v.SetDefault("database.mongo.minPoolSize", def.Database.MongoConf.MinPoolSize)
	v.SetDefault("database.mongo.maxPoolSize", def.Database.MongoConf.MaxPoolSize)
	v.SetDefault("database.redis.poolSize", def.Database.RedisConf.PoolSize)
	v.SetDefault("database.redis.minIdleConns", def.Database.RedisConf.MinIdleConns)
	v.SetDefault("nats.subject", def.Nats.Subject)
	v.SetDefault("simulation.tables", def.Simulation.Tables)
	v.SetDefault("simulation.seed", def.Simulation.Seed)
	v.SetDefault("simulation.maxSteps", def.Simulation.MaxSteps)
	v.SetDefault("simulation.monitorSeconds", def.Simulation.MonitorSeconds)
	return v
}

// Load 读取配置文件，环境变量可覆盖（rules.length -> RULES_LENGTH）
func Load(configFile string) (*Config, error) {
	v := newViper(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件出错: %w", err)
	}
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件出错: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitConfig 加载配置并监听文件变化，变化后替换 Conf 并回调 onChange
func InitConfig(configFile string, onChange func(*Config)) error {
	v := newViper(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件出错: %w", err)
	}
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("解析配置文件出错: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	setConf(cfg)

	v.OnConfigChange(func(in fsnotify.Event) {
		if !in.Has(fsnotify.Write) && !in.Has(fsnotify.Create) {
			return
		}
		next := new(Config)
		if err := v.Unmarshal(next); err != nil {
			return
		}
		if err := next.Validate(); err != nil {
			return
		}
		setConf(next)
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
	return nil
}

// Current 返回当前生效的配置，未加载时返回默认配置
func Current() *Config {
	confMu.RLock()
	defer confMu.RUnlock()
	if Conf == nil {
		return Default()
	}
	return Conf
}

func setConf(cfg *Config) {
	confMu.Lock()
	Conf = cfg
	confMu.Unlock()
}

func (c *Config) Validate() error {
	switch c.Rules.Length {
	case "tonpu", "hanchan":
	default:
		return fmt.Errorf("未知的对局长度: %q", c.Rules.Length)
	}
	if c.MetricPort < 0 || c.MetricPort > 65535 {
		return fmt.Errorf("监控端口非法: %d", c.MetricPort)
	}
	if c.Rules.InitialPoints <= 0 {
		return fmt.Errorf("初始点数必须为正数: %d", c.Rules.InitialPoints)
	}
	return nil
}
