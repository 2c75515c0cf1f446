// internal/workers/locations/list-cities/config.go
package listcities

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}
