// internal/workers/catalog/classify-category/config.go
package classifycategory

import "time"

type Config struct {
	Timeout         time.Duration
	UnmatchedPolicy UnmatchedPolicy
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         5 * time.Second,
		UnmatchedPolicy: PolicyHome,
	}
}
