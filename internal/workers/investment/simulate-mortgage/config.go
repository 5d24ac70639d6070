// internal/workers/investment/simulate-mortgage/config.go
package simulatemortgage

import (
	"time"

	"investr-engine/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig(wc config.WorkerConfig, cache config.CacheConfig) *Config {
	timeout := config.GetDuration(wc.Timeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ttl := time.Duration(cache.SimulationTTL) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Config{Timeout: timeout, CacheTTL: ttl}
}
