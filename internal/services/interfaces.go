package services

import (
	"context"

	"github.com/agro-group/contact-api/internal/models"
)

// ContactServiceInterface defines the interface for contact submission handling
type ContactServiceInterface interface {
	Submit(ctx context.Context, body []byte, identity string) (*models.ContactResponse, error)
}

// TokenVerifier confirms a submission came from a human. Implemented by
// pkg/turnstile; mocked in tests.
type TokenVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// SubmissionLimiter decides whether an identity may submit again.
// Implemented by internal/ratelimit.
type SubmissionLimiter interface {
	Allow(ctx context.Context, identity string) bool
}

// Ensure services implement their interfaces
var _ ContactServiceInterface = (*ContactService)(nil)
