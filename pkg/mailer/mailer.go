// Package mailer delivers validated contact submissions to the site
// owner through one of two interchangeable providers.
package mailer

import (
	"context"

	"github.com/agro-group/contact-api/internal/models"
)

const (
	subjectPrefix = "[Agro Group Contact] "
	defaultSender = "contact@agro-group.com"
	noReplySender = "noreply@agro-group.com"
	senderName    = "Agro Group Contact"
)

// Sender delivers a submission. Implementations make exactly one
// provider call and report its outcome; retries are the caller's
// decision (and the pipeline makes none).
type Sender interface {
	Send(ctx context.Context, p *models.SubmissionPayload) error
	Name() string
}

// Select picks the provider for a request: the primary when its API key
// is configured, the secondary otherwise. Selection happens once per
// request and there is no cross-provider fallback after a failed
// delivery attempt.
func Select(resendAPIKey string, primary, secondary Sender) Sender {
	if resendAPIKey != "" {
		return primary
	}
	return secondary
}
