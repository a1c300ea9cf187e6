package turnstile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agro-group/contact-api/pkg/httpclient"
)

const verifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Response represents the response from Cloudflare's siteverify API
type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

type verifyRequest struct {
	Secret   string `json:"secret"`
	Response string `json:"response"`
	RemoteIP string `json:"remoteip"`
}

// Verifier handles Cloudflare Turnstile verification
type Verifier struct {
	secretKey  string
	httpClient httpclient.Client
}

// NewVerifier creates a new Turnstile verifier
func NewVerifier(secretKey string, httpClient httpclient.Client) *Verifier {
	return &Verifier{
		secretKey:  secretKey,
		httpClient: httpClient,
	}
}

// Verify checks a Turnstile token against Cloudflare's siteverify
// endpoint, forwarding the caller's network address. Any failure
// (network, non-2xx status, undecodable body, success=false) returns
// an error so callers fail closed.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	resp, err := httpclient.PostJSON(ctx, v.httpClient, verifyURL, verifyRequest{
		Secret:   v.secretKey,
		Response: token,
		RemoteIP: remoteIP,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to verify turnstile token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("turnstile siteverify returned status %d", resp.StatusCode)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode turnstile response: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("turnstile verification failed")
	}

	return nil
}
