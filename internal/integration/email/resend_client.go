package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/family-budget/backend/internal/application/adapter"
	domainerror "github.com/family-budget/backend/internal/domain/error"
)

// refHeader stops mail clients from threading separate invitations together.
const refHeader = "X-Entity-Ref-ID"

// ResendClient delivers invitation emails through Resend.
type ResendClient struct {
	emails resend.EmailsSvc
	from   string
}

// NewResendClient creates a client sending as "fromName <fromEmail>".
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	return &ResendClient{
		emails: resend.NewClient(apiKey).Emails,
		from:   fmt.Sprintf("%s <%s>", fromName, fromEmail),
	}
}

// Send implements adapter.EmailSender.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	resp, err := c.emails.SendWithContext(ctx, buildRequest(c.from, input))
	if err != nil {
		return nil, classifyError(err)
	}

	slog.Debug("Email accepted by Resend", "message_id", resp.Id, "ref_id", input.RefID)
	return &adapter.SendEmailResult{MessageID: resp.Id}, nil
}

func buildRequest(from string, input adapter.SendEmailInput) *resend.SendEmailRequest {
	req := &resend.SendEmailRequest{
		From:    from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
		ReplyTo: input.ReplyTo,
	}
	if input.RefID != "" {
		req.Headers = map[string]string{refHeader: input.RefID}
	}

	names := make([]string, 0, len(input.Tags))
	for name := range input.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		req.Tags = append(req.Tags, resend.Tag{Name: tagValue(name), Value: tagValue(input.Tags[name])})
	}
	return req
}

var tagUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// tagValue keeps only the characters Resend accepts in tag names and values.
func tagValue(s string) string {
	return tagUnsafe.ReplaceAllString(s, "_")
}

func classifyError(err error) error {
	if isPermanentError(err) {
		return domainerror.NewEmailError(domainerror.ErrCodePermanentEmailFailure, "permanent email failure", err)
	}
	return domainerror.NewEmailError(domainerror.ErrCodeTemporaryEmailFailure, "temporary email failure", err)
}

var statusPattern = regexp.MustCompile(`\b([45]\d\d)\b`)

// isPermanentError reports whether retrying err cannot help. Client errors are permanent
// except 408 and 429. Without a status code the message text decides.
func isPermanentError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := strings.ToLower(err.Error())
	if m := statusPattern.FindStringSubmatch(msg); m != nil {
		status, _ := strconv.Atoi(m[1])
		return status >= 400 && status < 500 && status != 408 && status != 429
	}

	for _, hint := range []string{"unauthorized", "forbidden", "validation", "invalid"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

var _ adapter.EmailSender = (*ResendClient)(nil)
