// Package validation turns an untyped submission body into a
// SubmissionPayload or a single user-facing rejection reason.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agro-group/contact-api/internal/models"
)

// Rejection reasons shown to the visitor. The first failing rule wins
// and the rule order is part of the contract.
const (
	ReasonInvalidPayload  = "Invalid payload"
	ReasonNameTooShort    = "Nom invalide (min 2 caractères)."
	ReasonNameTooLong     = "Nom trop long."
	ReasonEmailInvalid    = "Email invalide."
	ReasonSubjectRequired = "Sujet requis."
	ReasonMessageTooShort = "Message trop court (min 10 caractères)."
	ReasonMessageTooLong  = "Message trop long (max 5000 caractères)."
	ReasonTokenMissing    = "Validation Turnstile manquante."
)

// Two-part address with a dotted domain and no embedded whitespace.
// Deliberately simple: real verification happens when the site owner
// replies to the address.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate applies the submission rules in order and returns either a
// fully constrained payload or the reason for the first failing rule.
// It never partially validates and performs no I/O.
func Validate(data any) (*models.SubmissionPayload, string) {
	obj, ok := data.(map[string]any)
	if !ok || obj == nil {
		return nil, ReasonInvalidPayload
	}

	name := field(obj, "name")
	email := field(obj, "email")
	subject := field(obj, "subject")
	message := field(obj, "message")
	token := field(obj, "turnstileToken")

	// The minimum-length check runs before the maximum-length check, so
	// an empty name always reports the "min 2" reason. Intentional.
	if utf8.RuneCountInString(name) < 2 {
		return nil, ReasonNameTooShort
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, ReasonNameTooLong
	}
	if email == "" || !emailPattern.MatchString(email) {
		return nil, ReasonEmailInvalid
	}
	if utf8.RuneCountInString(subject) < 3 {
		return nil, ReasonSubjectRequired
	}
	if utf8.RuneCountInString(message) < 10 {
		return nil, ReasonMessageTooShort
	}
	if utf8.RuneCountInString(message) > 5000 {
		return nil, ReasonMessageTooLong
	}
	if token == "" {
		return nil, ReasonTokenMissing
	}

	return &models.SubmissionPayload{
		Name:              name,
		Email:             email,
		Subject:           subject,
		Message:           message,
		VerificationToken: token,
	}, ""
}

// field coerces a JSON value to a trimmed string; missing or non-string
// values become the empty string.
func field(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}
