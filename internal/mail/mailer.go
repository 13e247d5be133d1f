package mail

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Mailer sends the platform's transactional mail. Implementations must be
// safe for concurrent use.
type Mailer interface {
	SendNewsletterVerification(ctx context.Context, to, verifyURL string) error
	SendBookingConfirmation(ctx context.Context, to, coachName string, scheduledAt time.Time) error
}

type SESMailer struct {
	client *ses.Client
	sender string
}

func NewSESMailer(ctx context.Context, region, sender string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESMailer{
		client: ses.NewFromConfig(cfg),
		sender: sender,
	}, nil
}

func (m *SESMailer) SendNewsletterVerification(ctx context.Context, to, verifyURL string) error {
	subject := "Confirm your CareerLift subscription"
	body := fmt.Sprintf(
		"Thanks for subscribing to the CareerLift newsletter.\n\nConfirm your address by opening this link:\n%s\n\nIf you did not subscribe, ignore this email.",
		verifyURL,
	)
	return m.send(ctx, to, subject, body)
}

func (m *SESMailer) SendBookingConfirmation(ctx context.Context, to, coachName string, scheduledAt time.Time) error {
	subject := "Your coaching session is confirmed"
	body := fmt.Sprintf(
		"Your session with %s on %s is confirmed.\n\nThe video link is available on your dashboard.",
		coachName,
		scheduledAt.Format(time.RFC1123),
	)
	return m.send(ctx, to, subject, body)
}

func (m *SESMailer) send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(m.sender),
	}
	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

// LogMailer stands in for SES in development; it logs instead of sending.
type LogMailer struct{}

func (LogMailer) SendNewsletterVerification(_ context.Context, to, verifyURL string) error {
	log.Printf("mail (dev): newsletter verification to %s: %s", to, verifyURL)
	return nil
}

func (LogMailer) SendBookingConfirmation(_ context.Context, to, coachName string, scheduledAt time.Time) error {
	log.Printf("mail (dev): booking confirmation to %s (coach %s, %s)", to, coachName, scheduledAt.Format(time.RFC3339))
	return nil
}
