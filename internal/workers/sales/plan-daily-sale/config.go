// internal/workers/sales/plan-daily-sale/config.go
package plandailysale

import (
	"time"

	"seller-assistant/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{Timeout: config.GetDuration(wc.Timeout)}
}
