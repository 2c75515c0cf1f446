// internal/workers/catalog/aggregate-gig-rows/config.go
package aggregategigrows

import (
	"time"

	classifycategory "gigdial/internal/workers/catalog/classify-category"
)

type Config struct {
	Timeout          time.Duration
	PlaceholderImage string
	UnmatchedPolicy  classifycategory.UnmatchedPolicy
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          10 * time.Second,
		PlaceholderImage: "https://via.placeholder.com/300x200?text=GigDial",
		UnmatchedPolicy:  classifycategory.PolicyHome,
	}
}
