// internal/workers/market/build-dashboard/config.go
package builddashboard

import "time"

type Config struct {
	Timeout       time.Duration
	DefaultRegion string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       10 * time.Second,
		DefaultRegion: "uk",
	}
}
