package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/agro-group/contact-api/internal/models"
	"github.com/agro-group/contact-api/internal/services"
	apperrors "github.com/agro-group/contact-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	service services.ContactServiceInterface
}

func NewContactHandler(service services.ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit handles POST /api/contact. The body is passed through
// unparsed: the rate-limit stage must run before any parsing, so the
// service owns the whole pipeline including JSON decoding.
func (h *ContactHandler) Submit(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		// MaxBytesReader trips here on oversized payloads
		attachError(c, err)
		c.JSON(http.StatusBadRequest, models.ContactResponse{Success: false, Message: models.MsgMalformedBody})
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), body, ClientIdentity(c))
	if err != nil {
		attachError(c, err)
		if rej, ok := apperrors.AsRejection(err); ok {
			c.JSON(rejectionStatus(rej), models.ContactResponse{Success: false, Message: rej.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ContactResponse{Success: false, Message: models.MsgDeliveryFailed})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ClientIdentity derives the rate-limit identity for a request: the
// Cloudflare edge header when present, else the first X-Forwarded-For
// hop, else a sentinel. Independent of gin's trusted-proxy logic so the
// chain stays exactly this; the value is never persisted beyond the
// rate-limit counter.
func ClientIdentity(c *gin.Context) string {
	if ip := c.GetHeader("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
	}
	return "0.0.0.0"
}

// rejectionStatus maps a pipeline rejection onto its HTTP status: 429
// for rate limiting, 500 for delivery failure, 400 for everything the
// client sent wrong (malformed body, validation, failed verification).
func rejectionStatus(r *apperrors.Rejection) int {
	switch {
	case apperrors.Is(r, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests
	case apperrors.Is(r, apperrors.ErrDeliveryFailed):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
