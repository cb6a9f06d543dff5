// internal/workers/market/estimate-salary/config.go
package estimatesalary

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
