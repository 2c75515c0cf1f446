// internal/workers/directory/get-worker-profile/config.go
package getworkerprofile

import "time"

type Config struct {
	Timeout          time.Duration
	PlaceholderImage string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          10 * time.Second,
		PlaceholderImage: "https://via.placeholder.com/300x200?text=GigDial",
	}
}
