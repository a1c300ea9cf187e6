package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agro-group/contact-api/config"
	"github.com/agro-group/contact-api/internal/models"
	"github.com/agro-group/contact-api/internal/services"
	"github.com/agro-group/contact-api/internal/validation"
	apperrors "github.com/agro-group/contact-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validBody = `{
	"name": "Amina El",
	"email": "amina@example.com",
	"subject": "Partenariat",
	"message": "Bonjour, je souhaite en savoir plus sur vos services.",
	"turnstileToken": "tok123"
}`

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Turnstile.SecretKey = "secret-key"
	cfg.Mail.ResendAPIKey = "re_abc123"
	cfg.Mail.Recipient = "contact@agro-group.com"
	return cfg
}

type fixture struct {
	limiter   *MockLimiter
	verifier  *MockVerifier
	primary   *MockSender
	secondary *MockSender
	service   *services.ContactService
}

func newFixture(cfg *config.Config) *fixture {
	f := &fixture{
		limiter:   new(MockLimiter),
		verifier:  new(MockVerifier),
		primary:   &MockSender{name: "resend"},
		secondary: &MockSender{name: "mailchannels"},
	}
	f.service = services.NewContactService(cfg, f.limiter, f.verifier, f.primary, f.secondary)
	return f
}

func requireRejection(t *testing.T, err error, kind error, message string) {
	t.Helper()
	rej, ok := apperrors.AsRejection(err)
	require.True(t, ok, "error should be a rejection, got %v", err)
	assert.True(t, errors.Is(err, kind))
	assert.Equal(t, message, rej.Message)
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(testConfig())
	f.limiter.On("Allow", mock.Anything, "203.0.113.7").Return(true)
	f.verifier.On("Verify", mock.Anything, "tok123", "203.0.113.7").Return(nil)
	f.primary.On("Send", mock.Anything, mock.AnythingOfType("*models.SubmissionPayload")).Return(nil)

	resp, err := f.service.Submit(context.Background(), []byte(validBody), "203.0.113.7")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Message envoyé avec succès.", resp.Message)
	f.limiter.AssertExpectations(t)
	f.verifier.AssertExpectations(t)
	f.primary.AssertExpectations(t)
	f.secondary.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmit_RateLimitedBeforeParsing(t *testing.T) {
	f := newFixture(testConfig())
	f.limiter.On("Allow", mock.Anything, "203.0.113.7").Return(false)

	// Even garbage bodies are rate limited first; the body is never parsed.
	resp, err := f.service.Submit(context.Background(), []byte(`{{{not json`), "203.0.113.7")

	assert.Nil(t, resp)
	requireRejection(t, err, apperrors.ErrRateLimited, models.MsgRateLimited)
	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
	f.primary.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmit_MalformedBody(t *testing.T) {
	f := newFixture(testConfig())
	f.limiter.On("Allow", mock.Anything, mock.Anything).Return(true)

	tests := []struct {
		name string
		body string
	}{
		{"truncated json", `{"name": "Ami`},
		{"empty body", ``},
		{"bare text", `hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.service.Submit(context.Background(), []byte(tt.body), "203.0.113.7")

			assert.Nil(t, resp)
			requireRejection(t, err, apperrors.ErrMalformedBody, models.MsgMalformedBody)
		})
	}
}

func TestSubmit_ValidationRejectionCarriesFieldReason(t *testing.T) {
	f := newFixture(testConfig())
	f.limiter.On("Allow", mock.Anything, mock.Anything).Return(true)

	body := `{"name":"Amina El","email":"amina@example.com","subject":"Partenariat","message":"court","turnstileToken":"tok123"}`
	resp, err := f.service.Submit(context.Background(), []byte(body), "203.0.113.7")

	assert.Nil(t, resp)
	requireRejection(t, err, apperrors.ErrInvalidInput, validation.ReasonMessageTooShort)
	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_VerificationFailureStopsDispatch(t *testing.T) {
	f := newFixture(testConfig())
	f.limiter.On("Allow", mock.Anything, mock.Anything).Return(true)
	f.verifier.On("Verify", mock.Anything, "tok123", "203.0.113.7").
		Return(errors.New("turnstile verification failed"))

	resp, err := f.service.Submit(context.Background(), []byte(validBody), "203.0.113.7")

	assert.Nil(t, resp)
	requireRejection(t, err, apperrors.ErrVerificationFailed, models.MsgVerificationFailed)
	f.primary.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	f.secondary.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmit_VerificationBypassedWhenSecretUnset(t *testing.T) {
	cfg := testConfig()
	cfg.Turnstile.SecretKey = ""
	f := newFixture(cfg)
	f.limiter.On("Allow", mock.Anything, mock.Anything).Return(true)
	f.primary.On("Send", mock.Anything, mock.AnythingOfType("*models.SubmissionPayload")).Return(nil)

	resp, err := f.service.Submit(context.Background(), []byte(validBody), "203.0.113.7")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_BypassStillRequiresValidToken(t *testing.T) {
	cfg := testConfig()
	cfg.Turnstile.SecretKey = ""
	f := newFixture(cfg)
	f.limiter.On("Allow", mock.Anything, mock.Anything).Return(true)

	// Token presence is a validation rule; the bypass only skips the
	// upstream check, never the field requirement.
	body := `{"name":"Amina El","email":"amina@example.com","subject":"Partenariat","message":"Bonjour, je souhaite en savoir plus.","turnstileToken":""}`
	resp, err := f.service.Submit(context.Background(), []byte(body), "203.0.113.7")

	assert.Nil(t, resp)
	requireRejection(t, err, apperrors.ErrInvalidInput, validation.ReasonTokenMissing)
}

func TestSubmit_DeliveryFailure(t *testing.T) {
	f := newFixture(testConfig())
	f.limiter.On("Allow", mock.Anything, mock.Anything).Return(true)
	f.verifier.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.primary.On("Send", mock.Anything, mock.AnythingOfType("*models.SubmissionPayload")).
		Return(errors.New("resend returned status 500"))

	resp, err := f.service.Submit(context.Background(), []byte(validBody), "203.0.113.7")

	assert.Nil(t, resp)
	requireRejection(t, err, apperrors.ErrDeliveryFailed, models.MsgDeliveryFailed)
	// A failed primary delivery must not fall back to the secondary provider.
	f.secondary.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmit_SecondaryProviderWhenNoResendKey(t *testing.T) {
	cfg := testConfig()
	cfg.Mail.ResendAPIKey = ""
	f := newFixture(cfg)
	f.limiter.On("Allow", mock.Anything, mock.Anything).Return(true)
	f.verifier.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.secondary.On("Send", mock.Anything, mock.AnythingOfType("*models.SubmissionPayload")).Return(nil)

	resp, err := f.service.Submit(context.Background(), []byte(validBody), "203.0.113.7")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	f.primary.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	f.secondary.AssertExpectations(t)
}

func TestSubmit_PassesTrimmedPayloadToSender(t *testing.T) {
	f := newFixture(testConfig())
	f.limiter.On("Allow", mock.Anything, mock.Anything).Return(true)
	f.verifier.On("Verify", mock.Anything, "tok123", mock.Anything).Return(nil)

	var sent *models.SubmissionPayload
	f.primary.On("Send", mock.Anything, mock.AnythingOfType("*models.SubmissionPayload")).
		Run(func(args mock.Arguments) {
			sent = args.Get(1).(*models.SubmissionPayload)
		}).Return(nil)

	body := `{"name":"  Amina El  ","email":" amina@example.com ","subject":"Partenariat","message":"Bonjour, je souhaite en savoir plus sur vos services.","turnstileToken":" tok123 "}`
	_, err := f.service.Submit(context.Background(), []byte(body), "203.0.113.7")

	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "Amina El", sent.Name)
	assert.Equal(t, "amina@example.com", sent.Email)
}
