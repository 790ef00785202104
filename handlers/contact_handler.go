// Package handlers contains the HTTP handlers for the public and admin API.
package handlers

import (
	"html"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwhitmore/portfolio-backend/errors"
	"github.com/jwhitmore/portfolio-backend/internal/store"
	"github.com/jwhitmore/portfolio-backend/logger"
	"github.com/jwhitmore/portfolio-backend/services"
	"github.com/jwhitmore/portfolio-backend/types"
)

const (
	maxEmailLength   = 254
	maxMessageLength = 1000

	genericSendFailure = "Failed to send message. Please try again later."
)

// ContactHandler runs the contact-form submission pipeline.
type ContactHandler struct {
	messageStore store.MessageStore
	emailSender  services.EmailSender
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(messageStore store.MessageStore, emailSender services.EmailSender) *ContactHandler {
	return &ContactHandler{
		messageStore: messageStore,
		emailSender:  emailSender,
	}
}

// Submit godoc
// @Summary      Submit a contact-form message
// @Description  Validates, sanitizes, emails and stores a contact submission
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      types.ContactRequest  true  "Contact payload"
// @Success      200   {object}  types.SuccessResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      429   {object}  types.ErrorResponse
// @Failure      500   {object}  types.ErrorResponse
// @Router       /api/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req types.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Missing required fields."))
		return
	}

	ip := c.ClientIP()

	// Honeypot: bots fill the hidden company field. Respond with the same
	// success shape as a genuine submission so automation cannot learn it
	// was filtered. No email, no row.
	if req.Company != "" {
		logger.Event(logger.EventSpamBlocked, "ip", ip)
		c.JSON(http.StatusOK, types.SuccessResponse{Success: true})
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Message == "" {
		_ = c.Error(apperrors.ValidationFailed("Missing required fields."))
		return
	}

	if !isValidEmail(req.Email) {
		_ = c.Error(apperrors.ValidationFailed("Please provide a valid email address"))
		return
	}

	if len(req.Email) > maxEmailLength {
		_ = c.Error(apperrors.ValidationFailed("Email address is too long"))
		return
	}

	if len(req.Message) > maxMessageLength {
		_ = c.Error(apperrors.ValidationFailed("Message must be less than 1000 characters"))
		return
	}

	// Validation ran against the raw input; escape once here and use the
	// escaped form for both the email body and the stored row. The email
	// address stays raw: it was validated above and must remain a
	// deliverable address.
	msg := &types.Message{
		FirstName: html.EscapeString(req.FirstName),
		LastName:  html.EscapeString(req.LastName),
		Email:     req.Email,
		Subject:   html.EscapeString(req.Subject),
		Body:      html.EscapeString(req.Message),
		SourceIP:  ip,
	}

	if err := h.emailSender.SendContactEmail(c.Request.Context(), msg); err != nil {
		if provErr, ok := err.(*services.ProviderError); ok {
			logger.Event(logger.EventResendError,
				"ip", ip,
				"email", req.Email,
				"error", provErr.Message,
			)
		} else {
			logger.Event(logger.EventError,
				"ip", ip,
				"error", err.Error(),
			)
		}
		_ = c.Error(apperrors.InternalServerError(genericSendFailure))
		return
	}

	if _, err := h.messageStore.CreateMessage(c.Request.Context(), msg); err != nil {
		logger.Event(logger.EventError,
			"ip", ip,
			"error", err.Error(),
		)
		_ = c.Error(apperrors.InternalServerError(genericSendFailure))
		return
	}

	logger.Event(logger.EventSuccess,
		"ip", ip,
		"email", req.Email,
		"subject", msg.Subject,
	)
	c.JSON(http.StatusOK, types.SuccessResponse{Success: true})
}

// isValidEmail reports whether addr is a bare, syntactically valid address
// (no display name).
func isValidEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return false
	}
	return parsed.Address == addr
}
