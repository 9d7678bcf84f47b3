// internal/workers/messaging/generate-reply/config.go
package generatereply

import (
	"time"

	"seller-assistant/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	MaxRetries int
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:    config.GetDuration(wc.Timeout),
		MaxRetries: wc.MaxRetries,
	}
}
