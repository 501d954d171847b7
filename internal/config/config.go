package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Elastic  ElasticConfig  `mapstructure:"elastic"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	OrderEvents  string `mapstructure:"order_events"`
	PayoutEvents string `mapstructure:"payout_events"`
}

// ElasticConfig 商品搜索配置
// enabled=false 时搜索接口回退到 MySQL LIKE 查询
type ElasticConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type BusinessConfig struct {
	OrderTimeoutMinutes   int   `mapstructure:"order_timeout_minutes"`   // PENDING 订单超时时间
	PickingTimeoutMinutes int   `mapstructure:"picking_timeout_minutes"` // 拣货超时时间，超时释放认领
	EarningHoldHours      int   `mapstructure:"earning_hold_hours"`      // 收益冻结时长，冻结期内不可提现
	DeliveryFeeBase       int64 `mapstructure:"delivery_fee_base"`       // 配送基础费（paise）
	CommissionRateBps     int64 `mapstructure:"commission_rate_bps"`     // 平台抽佣费率（基点，1bp=0.01%）
	MaxRetryCount         int   `mapstructure:"max_retry_count"`
}

var GlobalConfig *Config

// LoadConfig 加载配置文件
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	GlobalConfig = config
	return config
}
