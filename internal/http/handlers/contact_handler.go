// Contact HTTP handler.
//
//   - POST /contact   (forward a contact form to the webhook)
//
// Idempotency:
// With an Idempotency-Key header, the first successful outcome for
// (user, key) is recorded and replayed for retries with
// `Idempotency-Replayed: true`. Failures are not recorded.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/contact-dashboard/internal/http/middleware"
	"github.com/tbourn/contact-dashboard/internal/services"
	"github.com/tbourn/contact-dashboard/internal/webhook"
)

// ContactRequest is the contact form payload.
type ContactRequest struct {
	Name  string `json:"name" example:"Jane Doe"`
	Email string `json:"email" example:"jane@acme.com"`
}

// ContactResponse carries the message shown to the submitter.
type ContactResponse struct {
	Message string `json:"message" example:"Submitted successfully!"`
}

// SubmitContact godoc
// @ID          submitContact
// @Summary     Submit the contact form
// @Description Forwards name and email to the webhook. Both are trimmed and required.
// @Description Supports idempotency via the Idempotency-Key header (same key, same result).
// @Tags        Contact
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string                    false  "Key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.ContactRequest   true   "Contact form"
// @Success     200  {object}  handlers.ContactResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Name or email missing"
// @Failure     502  {object}  handlers.ErrorResponse  "Webhook unreachable or returned an unexpected response"
// @Router      /contact [post]
func (h *Handlers) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	res, err := h.contact.Submit(c.Request.Context(), viewer(c), key, webhook.ContactRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	switch {
	case errors.Is(err, services.ErrInvalidContact):
		fail(c, http.StatusBadRequest, ErrCodeInvalidContact, services.FailureMessage(err))
		return
	case errors.Is(err, webhook.ErrNetwork):
		fail(c, http.StatusBadGateway, ErrCodeNetwork, services.FailureMessage(err))
		return
	case err != nil:
		fail(c, http.StatusBadGateway, ErrCodeUnexpectedResponse, services.FailureMessage(err))
		return
	}

	if res.Replayed {
		c.Header(middleware.HeaderIdempotencyReplayed, "true")
	}
	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	ok(c, status, ContactResponse{Message: res.Message})
}
