// Package email delivers pantry notifications by email.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"sort"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

// rejectedStatus matches provider responses that will fail again on retry.
// 429 and 5xx are left out and treated as temporary.
var rejectedStatus = regexp.MustCompile(`\b(400|401|403|404|409|422)\b`)

// ResendClient sends notification emails through Resend.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewResendClient creates a Resend-backed sender.
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	from := (&mail.Address{Name: fromName, Address: fromEmail}).String()
	return &ResendClient{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send delivers one email. Provider failures are wrapped in ErrDeliveryRejected
// or ErrDeliveryUnavailable so the worker knows whether to retry.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	to := input.To
	if input.Name != "" {
		to = (&mail.Address{Name: input.Name, Address: input.To}).String()
	}

	resp, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
		Tags:    resendTags(input.Tags),
	})
	if err != nil {
		return nil, classifyProviderError(err)
	}

	return &adapter.SendEmailResult{ProviderMessageID: resp.Id}, nil
}

func classifyProviderError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeDeliveryUnavailable,
			"email provider did not answer",
			errors.Join(domainerror.ErrDeliveryUnavailable, err),
		)
	}
	if rejectedStatus.MatchString(err.Error()) {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeDeliveryRejected,
			"email provider rejected the message",
			errors.Join(domainerror.ErrDeliveryRejected, err),
		)
	}
	return domainerror.NewNotificationError(
		domainerror.ErrCodeDeliveryUnavailable,
		"email provider unavailable",
		errors.Join(domainerror.ErrDeliveryUnavailable, err),
	)
}

// resendTags converts tags in a stable order. Resend only accepts ASCII letters,
// digits, underscores and dashes, so anything else is replaced.
func resendTags(tags map[string]string) []resend.Tag {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]resend.Tag, 0, len(names))
	for _, name := range names {
		out = append(out, resend.Tag{Name: tagSafe(name), Value: tagSafe(tags[name])})
	}
	return out
}

func tagSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, s)
}

// LogEmailSender logs emails instead of sending them. It is used when no
// Resend API key is configured.
type LogEmailSender struct{}

// Send implements adapter.EmailSender.
func (LogEmailSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	slog.Info("Email not sent, no provider configured",
		"to", input.To,
		"subject", input.Subject,
		"tags", input.Tags,
	)
	return &adapter.SendEmailResult{ProviderMessageID: fmt.Sprintf("log-%s", input.Tags["notification_id"])}, nil
}

var (
	_ adapter.EmailSender = (*ResendClient)(nil)
	_ adapter.EmailSender = LogEmailSender{}
)
