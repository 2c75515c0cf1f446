// internal/workers/booking/booking-intent/config.go
package bookingintent

import "time"

type Config struct {
	Timeout   time.Duration
	IntentTTL time.Duration
	LoginPath string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		IntentTTL: 30 * time.Minute,
		LoginPath: "/login",
	}
}
