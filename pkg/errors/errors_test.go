package errors_test

import (
	"fmt"
	"testing"

	apperrors "github.com/agro-group/contact-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejection_UnwrapsToItsKind(t *testing.T) {
	rej := apperrors.Reject(apperrors.ErrRateLimited, "Trop de requêtes.")

	assert.True(t, apperrors.Is(rej, apperrors.ErrRateLimited))
	assert.False(t, apperrors.Is(rej, apperrors.ErrDeliveryFailed))
}

func TestAsRejection(t *testing.T) {
	rej := apperrors.Reject(apperrors.ErrInvalidInput, "Email invalide.")

	got, ok := apperrors.AsRejection(rej)
	require.True(t, ok)
	assert.Equal(t, "Email invalide.", got.Message)

	// Survives further wrapping.
	wrapped := fmt.Errorf("submit: %w", rej)
	got, ok = apperrors.AsRejection(wrapped)
	require.True(t, ok)
	assert.Equal(t, "Email invalide.", got.Message)
	assert.True(t, apperrors.Is(wrapped, apperrors.ErrInvalidInput))

	_, ok = apperrors.AsRejection(fmt.Errorf("plain error"))
	assert.False(t, ok)
}

func TestRejection_ErrorStringNamesKindAndMessage(t *testing.T) {
	rej := apperrors.Reject(apperrors.ErrMalformedBody, "Corps de requête invalide.")
	assert.Equal(t, "malformed body: Corps de requête invalide.", rej.Error())
}
