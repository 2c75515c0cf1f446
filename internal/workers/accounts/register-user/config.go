// internal/workers/accounts/register-user/config.go
package registeruser

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}
