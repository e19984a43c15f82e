// Package aws wraps the SES and SNS clients used for candidate
// notifications. The wrappers expose the SDK call signatures directly so
// the notify package can swap them for fakes.
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

func loadConfig(ctx context.Context, region string) (awssdk.Config, error) {
	return config.LoadDefaultConfig(ctx, config.WithRegion(region))
}
