package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/agro-group/contact-api/internal/models"
	"github.com/agro-group/contact-api/pkg/httpclient"
)

const mailChannelsURL = "https://api.mailchannels.net/tx/v1/send"

type mcAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mcPersonalization struct {
	To      []mcAddress `json:"to"`
	ReplyTo mcAddress   `json:"reply_to"`
}

type mcContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mcRequest struct {
	Personalizations []mcPersonalization `json:"personalizations"`
	From             mcAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []mcContent         `json:"content"`
}

// MailChannelsSender delivers through the MailChannels relay API with a
// plain-text body. It is the fallback provider when no Resend API key is
// configured.
type MailChannelsSender struct {
	sender     string
	recipient  string
	httpClient httpclient.Client
}

// NewMailChannelsSender creates the secondary provider. An empty sender
// falls back to the site's no-reply address.
func NewMailChannelsSender(sender, recipient string, httpClient httpclient.Client) *MailChannelsSender {
	if sender == "" {
		sender = noReplySender
	}
	return &MailChannelsSender{
		sender:     sender,
		recipient:  recipient,
		httpClient: httpClient,
	}
}

// Send makes a single delivery attempt. MailChannels signals acceptance
// with 202 specifically; anything else is a delivery failure.
func (s *MailChannelsSender) Send(ctx context.Context, p *models.SubmissionPayload) error {
	text := fmt.Sprintf("De: %s <%s>\nSujet: %s\n\n%s", p.Name, p.Email, p.Subject, p.Message)

	resp, err := httpclient.PostJSON(ctx, s.httpClient, mailChannelsURL, mcRequest{
		Personalizations: []mcPersonalization{{
			To:      []mcAddress{{Email: s.recipient}},
			ReplyTo: mcAddress{Email: p.Email, Name: p.Name},
		}},
		From:    mcAddress{Email: s.sender, Name: senderName},
		Subject: subjectPrefix + p.Subject,
		Content: []mcContent{{Type: "text/plain", Value: text}},
	}, nil)
	if err != nil {
		return fmt.Errorf("mailchannels request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mailchannels returned status %d", resp.StatusCode)
	}

	return nil
}

func (s *MailChannelsSender) Name() string {
	return "mailchannels"
}
