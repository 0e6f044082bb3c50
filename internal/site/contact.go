package site

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chunshen/portfolio/internal/contact"
	"github.com/chunshen/portfolio/internal/store"
)

const relayTimeout = 15 * time.Second

// contactResult is what the visitor is told after submitting.
type contactResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Mailto string `json:"mailto,omitempty"`
}

// submit validates, stores and relays a submission. When no relay is
// configured, or the relay fails, the visitor gets a mailto: link instead.
func (s *Server) submit(ctx context.Context, sub contact.Submission) (contactResult, error) {
	sub = sub.Normalize()
	if err := sub.Validate(s.cfg.Contact.MaxLength); err != nil {
		return contactResult{}, err
	}

	msg := store.Message{
		ID:        uuid.NewString(),
		Name:      sub.Name,
		Email:     sub.Email,
		Body:      sub.Message,
		Status:    store.StatusPending,
		CreatedAt: s.now(),
	}
	if err := s.db.SaveMessage(ctx, msg); err != nil {
		return contactResult{}, err
	}

	result := contactResult{ID: msg.ID}
	if s.relay == nil {
		result.Status = store.StatusMailto
		result.Mailto = contact.MailtoLink(s.cfg.Contact.To, sub.Message)
		s.setMessageStatus(ctx, msg.ID, store.StatusMailto, "")
		return result, nil
	}

	relayCtx, cancel := context.WithTimeout(ctx, relayTimeout)
	defer cancel()
	if err := s.relay.Send(relayCtx, sub); err != nil {
		s.logger.Error("Contact relay failed", zap.String("message", msg.ID), zap.Error(err))
		s.setMessageStatus(ctx, msg.ID, store.StatusFailed, err.Error())
		result.Status = store.StatusFailed
		result.Mailto = contact.MailtoLink(s.cfg.Contact.To, sub.Message)
		return result, nil
	}

	s.setMessageStatus(ctx, msg.ID, store.StatusSent, "")
	s.logger.Info("Contact message relayed", zap.String("message", msg.ID))
	result.Status = store.StatusSent
	return result, nil
}

func (s *Server) setMessageStatus(ctx context.Context, id, status, errMsg string) {
	if err := s.db.UpdateMessageStatus(ctx, id, status, errMsg); err != nil {
		s.logger.Warn("Failed to update message status", zap.String("message", id), zap.Error(err))
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, contact.ErrEmptyMessage) ||
		errors.Is(err, contact.ErrMessageTooLong) ||
		errors.Is(err, contact.ErrInvalidEmail) ||
		errors.Is(err, contact.ErrInvalidName)
}

func (s *Server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title": "Contact Me",
	})
}

// handleContact answers the HTMX form with an HTML fragment.
func (s *Server) handleContact(c *gin.Context) {
	var sub contact.Submission
	if err := c.ShouldBind(&sub); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": "Sorry, that form could not be read."})
		return
	}

	result, err := s.submit(c.Request.Context(), sub)
	switch {
	case isValidationError(err):
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": err.Error()})
	case err != nil:
		s.logger.Error("Contact submission failed", zap.Error(err))
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
	case result.Status == store.StatusSent:
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	default:
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Your message is saved. You can also send it from your own mail app.",
			"mailto":  result.Mailto,
		})
	}
}

func (s *Server) handleContactAPI(c *gin.Context) {
	var sub contact.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.submit(c.Request.Context(), sub)
	switch {
	case isValidationError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case err != nil:
		s.logger.Error("Contact submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save message"})
	default:
		c.JSON(http.StatusAccepted, result)
	}
}
