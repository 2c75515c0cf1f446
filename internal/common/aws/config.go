// internal/common/aws/config.go
package aws

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadConfig resolves credentials from the default chain for region.
func LoadConfig(ctx context.Context, region string) (sdkaws.Config, error) {
	return config.LoadDefaultConfig(ctx, config.WithRegion(region))
}
