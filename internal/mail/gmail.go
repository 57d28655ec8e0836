package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GmailMailer sends mail through the Gmail API as the authorized account.
type GmailMailer struct {
	svc  *gmail.Service
	from string
}

func NewGmailMailer(ctx context.Context, client *http.Client, from string) (*GmailMailer, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &GmailMailer{svc: svc, from: from}, nil
}

func (m *GmailMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := &gmail.Message{Raw: encodeMessage(m.from, to, subject, body)}
	return retry(ctx, 3, time.Second, func() error {
		_, err := m.svc.Users.Messages.Send("me", msg).Context(ctx).Do()
		return err
	})
}

// encodeMessage builds an RFC 5322 plain-text message in the base64url form
// the Gmail API expects.
func encodeMessage(from, to, subject, body string) string {
	var b strings.Builder
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// retry executes f with exponential backoff. Client errors (4xx other than
// 429) are not retried.
func retry(ctx context.Context, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if isPermanent(err) || i == attempts-1 {
			break
		}

		slog.Warn("Gmail API error, retrying", "err", err, "in", sleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return fmt.Errorf("gmail send failed: %w", err)
}

func isPermanent(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code >= 400 && gErr.Code < 500 && gErr.Code != http.StatusTooManyRequests
	}
	return false
}
