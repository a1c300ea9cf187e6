package models

// User-facing pipeline messages. The site is French-language; these
// strings are part of the public contract and are asserted verbatim in
// tests. Field-level validation reasons live in internal/validation.
const (
	MsgSuccess            = "Message envoyé avec succès."
	MsgRateLimited        = "Trop de requêtes. Veuillez réessayer dans une heure."
	MsgMalformedBody      = "Corps de requête invalide."
	MsgVerificationFailed = "Validation anti-spam échouée. Veuillez réessayer."
	MsgDeliveryFailed     = "Erreur lors de l'envoi. Veuillez réessayer ou nous contacter directement."
)

// SubmissionPayload is a validated contact form submission. Instances
// are produced only by validation.Validate; every field already
// satisfies its constraint.
type SubmissionPayload struct {
	Name              string
	Email             string
	Subject           string
	Message           string
	VerificationToken string
}

// ContactResponse is the JSON body returned for every pipeline outcome.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
