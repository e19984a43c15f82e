// Package notify delivers candidate-facing emails over AWS SES, with an
// SNS SMS fallback when a phone number is available. Delivery is best
// effort; callers log failures and continue.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	apperrors "paygo-hire/internal/common/errors"
	"paygo-hire/internal/common/logger"
	"paygo-hire/internal/models"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Notifier struct {
	sesClient SESService
	snsClient SNSService
	fromEmail string
	logger    logger.Logger
}

func New(sesClient SESService, snsClient SNSService, fromEmail string, log logger.Logger) *Notifier {
	return &Notifier{
		sesClient: sesClient,
		snsClient: snsClient,
		fromEmail: fromEmail,
		logger:    log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

// StatusChanged tells a candidate their application moved.
func (n *Notifier) StatusChanged(ctx context.Context, candidate *models.Candidate, job *models.Job, from, to string) error {
	subject := fmt.Sprintf("Your application for %s moved to %s", job.Title, to)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour application for the %s position has moved from %s to %s.",
		candidate.Name, job.Title, from, to)
	return n.send(ctx, candidate, subject, body)
}

// InterviewConfirmed tells a candidate their interview slot is booked.
func (n *Notifier) InterviewConfirmed(ctx context.Context, candidate *models.Candidate, job *models.Job, slot time.Time) error {
	subject := fmt.Sprintf("Interview confirmed for %s", job.Title)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour interview for the %s position is confirmed for %s.",
		candidate.Name, job.Title, slot.Format("Monday, January 2 at 15:04 MST"))
	return n.send(ctx, candidate, subject, body)
}

func (n *Notifier) send(ctx context.Context, candidate *models.Candidate, subject, body string) error {
	emailSent := false

	if candidate.Email != "" {
		if err := n.sendEmail(ctx, candidate.Email, subject, body); err != nil {
			n.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": candidate.Email,
			})
		} else {
			emailSent = true
		}
	}

	// SMS only as a fallback when email did not go out.
	if !emailSent && candidate.Phone != "" && n.snsClient != nil {
		if err := n.sendSMS(ctx, candidate.Phone, subject); err != nil {
			n.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": candidate.Phone,
			})
			return apperrors.NewNotificationSendFailedError("sms", err)
		}
		return nil
	}

	if !emailSent {
		return apperrors.NewNotificationSendFailedError("email", fmt.Errorf("no reachable channel for candidate %s", candidate.ID))
	}
	return nil
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.fromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}
