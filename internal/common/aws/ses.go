// internal/common/aws/ses.go
package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESClient struct {
	api       SESAPI
	fromEmail string
}

func NewSESClient(cfg sdkaws.Config, fromEmail string) *SESClient {
	return &SESClient{api: ses.NewFromConfig(cfg), fromEmail: fromEmail}
}

// NewSESClientWithAPI wraps a caller-supplied implementation, typically a test double.
func NewSESClientWithAPI(api SESAPI, fromEmail string) *SESClient {
	return &SESClient{api: api, fromEmail: fromEmail}
}

// SendText sends a plain-text email and returns the SES message id.
func (s *SESClient) SendText(ctx context.Context, to, subject, body string) (string, error) {
	out, err := s.api.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: sdkaws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: sdkaws.String(body)},
			},
		},
		Source: sdkaws.String(s.fromEmail),
	})
	if err != nil {
		return "", fmt.Errorf("ses send email: %w", err)
	}
	return sdkaws.ToString(out.MessageId), nil
}
