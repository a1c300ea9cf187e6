package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/agro-group/contact-api/internal/models"
	"github.com/agro-group/contact-api/pkg/httpclient"
)

const resendURL = "https://api.resend.com/emails"

// User-supplied fields go through html/template so they are escaped in
// both HTML and URL context before being embedded.
var resendBody = template.Must(template.New("contact").Parse(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto; padding: 24px;">
  <h2 style="color: #1f7a27; margin-bottom: 4px;">Nouveau message de contact</h2>
  <p style="color: #666; font-size: 14px;">Via le formulaire de contact agro-group.com</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;" />
  <table style="width: 100%; border-collapse: collapse; font-size: 14px;">
    <tr><td style="padding: 8px 0; color: #888; width: 100px;">Nom</td><td style="padding: 8px 0; font-weight: 600;">{{.Name}}</td></tr>
    <tr><td style="padding: 8px 0; color: #888;">Email</td><td style="padding: 8px 0;"><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
    <tr><td style="padding: 8px 0; color: #888;">Sujet</td><td style="padding: 8px 0;">{{.Subject}}</td></tr>
  </table>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;" />
  <h3 style="font-size: 14px; color: #444; margin-bottom: 8px;">Message :</h3>
  <div style="background: #f9f9f9; border-left: 3px solid #1f7a27; padding: 16px; border-radius: 4px; white-space: pre-wrap; font-size: 14px; color: #333;">{{.Message}}</div>
</div>`))

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ResendSender delivers through the Resend transactional e-mail API.
type ResendSender struct {
	apiKey     string
	sender     string
	recipient  string
	httpClient httpclient.Client
}

// NewResendSender creates the primary provider. An empty sender falls
// back to the site's contact address.
func NewResendSender(apiKey, sender, recipient string, httpClient httpclient.Client) *ResendSender {
	if sender == "" {
		sender = defaultSender
	}
	return &ResendSender{
		apiKey:     apiKey,
		sender:     sender,
		recipient:  recipient,
		httpClient: httpClient,
	}
}

// Send makes a single delivery attempt; any HTTP-level non-success is a
// delivery failure.
func (s *ResendSender) Send(ctx context.Context, p *models.SubmissionPayload) error {
	var body bytes.Buffer
	if err := resendBody.Execute(&body, p); err != nil {
		return fmt.Errorf("failed to render mail body: %w", err)
	}

	resp, err := httpclient.PostJSON(ctx, s.httpClient, resendURL, resendRequest{
		From:    s.sender,
		To:      []string{s.recipient},
		ReplyTo: p.Email,
		Subject: subjectPrefix + p.Subject,
		HTML:    body.String(),
	}, map[string]string{"Authorization": "Bearer " + s.apiKey})
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("resend returned status %d", resp.StatusCode)
	}

	return nil
}

func (s *ResendSender) Name() string {
	return "resend"
}
