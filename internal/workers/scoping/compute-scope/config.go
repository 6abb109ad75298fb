// internal/workers/scoping/compute-scope/config.go
package computescope

import "time"

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL: 30 * time.Minute,
		Timeout:  10 * time.Second,
	}
}
