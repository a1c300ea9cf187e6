package services

import (
	"context"
	"encoding/json"

	"github.com/agro-group/contact-api/config"
	"github.com/agro-group/contact-api/internal/models"
	"github.com/agro-group/contact-api/internal/validation"
	apperrors "github.com/agro-group/contact-api/pkg/errors"
	"github.com/agro-group/contact-api/pkg/logger"
	"github.com/agro-group/contact-api/pkg/mailer"
	"github.com/agro-group/contact-api/pkg/metrics"
	"go.uber.org/zap"
)

// ContactService runs the submission pipeline: rate limit, parse,
// validate, verify, dispatch. Stages run strictly in sequence and the
// first failure terminates the request with a typed rejection.
type ContactService struct {
	cfg       *config.Config
	limiter   SubmissionLimiter
	verifier  TokenVerifier
	primary   mailer.Sender
	secondary mailer.Sender
}

// NewContactService creates a new contact service instance
func NewContactService(
	cfg *config.Config,
	limiter SubmissionLimiter,
	verifier TokenVerifier,
	primary mailer.Sender,
	secondary mailer.Sender,
) *ContactService {
	return &ContactService{
		cfg:       cfg,
		limiter:   limiter,
		verifier:  verifier,
		primary:   primary,
		secondary: secondary,
	}
}

// Submit processes one contact submission. body is the raw request body;
// identity is the client's derived network identity, used only as the
// rate-limit key. On failure the returned error is always a
// *apperrors.Rejection carrying the client-facing message.
func (s *ContactService) Submit(ctx context.Context, body []byte, identity string) (*models.ContactResponse, error) {
	if !s.limiter.Allow(ctx, identity) {
		metrics.ContactSubmissions.WithLabelValues("rate_limited").Inc()
		logger.Warn("Submission rate limited", zap.String("identity", identity))
		return nil, apperrors.Reject(apperrors.ErrRateLimited, models.MsgRateLimited)
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		metrics.ContactSubmissions.WithLabelValues("malformed").Inc()
		logger.Warn("Malformed submission body", zap.Error(err))
		return nil, apperrors.Reject(apperrors.ErrMalformedBody, models.MsgMalformedBody)
	}

	payload, reason := validation.Validate(raw)
	if reason != "" {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		logger.Warn("Submission failed validation", zap.String("reason", reason))
		return nil, apperrors.Reject(apperrors.ErrInvalidInput, reason)
	}

	if s.cfg.Turnstile.SecretKey == "" {
		// Operational bypass so the form works on local/preview
		// deployments without Cloudflare credentials. Kept loud in the
		// logs; it must never reach production unnoticed.
		logger.Warn("TURNSTILE_SECRET_KEY not set, skipping verification")
		metrics.TurnstileVerifications.WithLabelValues("bypassed").Inc()
	} else if err := s.verifier.Verify(ctx, payload.VerificationToken, identity); err != nil {
		metrics.ContactSubmissions.WithLabelValues("captcha_failed").Inc()
		metrics.TurnstileVerifications.WithLabelValues("failed").Inc()
		logger.Warn("Turnstile verification failed", zap.Error(err))
		return nil, apperrors.Reject(apperrors.ErrVerificationFailed, models.MsgVerificationFailed)
	} else {
		metrics.TurnstileVerifications.WithLabelValues("verified").Inc()
	}

	sender := mailer.Select(s.cfg.Mail.ResendAPIKey, s.primary, s.secondary)
	if err := sender.Send(ctx, payload); err != nil {
		metrics.ContactSubmissions.WithLabelValues("delivery_failed").Inc()
		metrics.MailDeliveries.WithLabelValues(sender.Name(), "error").Inc()
		logger.Error("Mail delivery failed",
			zap.String("provider", sender.Name()), zap.Error(err))
		return nil, apperrors.Reject(apperrors.ErrDeliveryFailed, models.MsgDeliveryFailed)
	}

	metrics.ContactSubmissions.WithLabelValues("success").Inc()
	metrics.MailDeliveries.WithLabelValues(sender.Name(), "success").Inc()
	logger.Info("Contact submission delivered", zap.String("provider", sender.Name()))

	return &models.ContactResponse{Success: true, Message: models.MsgSuccess}, nil
}
