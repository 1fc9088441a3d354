package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type SettlementConfig struct {
	Env            string `yaml:"env"`
	HTTPServer     `yaml:"http_server"`
	SettlementDB   `yaml:"settlement_db"`
	LogConfig      `yaml:"log_config"`
	PaymentGateway `yaml:"payment_gateway"`
	Kafka          `yaml:"kafka"`
	Sweeper        `yaml:"sweeper"`
	FeeSchedule    `yaml:"fee_schedule"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type SettlementDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type PaymentGateway struct {
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic" env-default:"settlement.events"`
}

type Sweeper struct {
	Interval      time.Duration `yaml:"interval" env-default:"1m"`
	PendingTTL    time.Duration `yaml:"pending_ttl" env-default:"30m"`
	PaymentWindow time.Duration `yaml:"payment_window" env-default:"30m"`
}

type FeeSchedule struct {
	PlatformRateBps   int64 `yaml:"platform_rate_bps" env-default:"1000"`
	ProcessingFixed   int64 `yaml:"processing_fixed" env-default:"30"`
	ProcessingRateBps int64 `yaml:"processing_rate_bps" env-default:"300"`
}

func MustLoad() *SettlementConfig {
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
