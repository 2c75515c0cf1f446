// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	api      SNSAPI
	topicARN string
}

func NewSNSClient(cfg sdkaws.Config, topicARN string) *SNSClient {
	return &SNSClient{api: sns.NewFromConfig(cfg), topicARN: topicARN}
}

func NewSNSClientWithAPI(api SNSAPI, topicARN string) *SNSClient {
	return &SNSClient{api: api, topicARN: topicARN}
}

// PublishEvent publishes payload as JSON to the configured topic with an
// eventType message attribute for subscription filtering.
func (s *SNSClient) PublishEvent(ctx context.Context, eventType string, payload interface{}) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s event: %w", eventType, err)
	}

	out, err := s.api.Publish(ctx, &sns.PublishInput{
		TopicArn: sdkaws.String(s.topicARN),
		Message:  sdkaws.String(string(raw)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {
				DataType:    sdkaws.String("String"),
				StringValue: sdkaws.String(eventType),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return sdkaws.ToString(out.MessageId), nil
}
