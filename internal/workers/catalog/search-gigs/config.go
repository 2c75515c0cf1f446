// internal/workers/catalog/search-gigs/config.go
package searchgigs

import (
	"time"

	classifycategory "gigdial/internal/workers/catalog/classify-category"
)

type Config struct {
	Timeout          time.Duration
	Index            string
	DefaultSize      int
	MaxSize          int
	PlaceholderImage string
	UnmatchedPolicy  classifycategory.UnmatchedPolicy
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          5 * time.Second,
		Index:            "gigs",
		DefaultSize:      20,
		MaxSize:          100,
		PlaceholderImage: "https://via.placeholder.com/300x200?text=GigDial",
		UnmatchedPolicy:  classifycategory.PolicyHome,
	}
}
