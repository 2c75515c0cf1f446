// internal/workers/directory/list-approved-workers/config.go
package listapprovedworkers

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}
