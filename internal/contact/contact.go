// Package contact validates contact form submissions and delivers them.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message is too long")
	ErrInvalidEmail   = errors.New("email address is not valid")
	ErrInvalidName    = errors.New("name is too long")
)

// MailtoSubject is the subject line used for mailto: fallbacks.
const MailtoSubject = "New message from portfolio website"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Submission is what the visitor typed into the form.
type Submission struct {
	Name    string `form:"name" json:"name" validate:"max=100"`
	Email   string `form:"email" json:"email" validate:"omitempty,email,max=254"`
	Message string `form:"message" json:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (s Submission) Normalize() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Message: strings.TrimSpace(s.Message),
	}
}

// Validate checks a normalized submission. maxLen counts characters.
func (s Submission) Validate(maxLen int) error {
	if s.Message == "" {
		return ErrEmptyMessage
	}
	if maxLen > 0 && utf8.RuneCountInString(s.Message) > maxLen {
		return fmt.Errorf("%w: %d characters, limit is %d", ErrMessageTooLong, utf8.RuneCountInString(s.Message), maxLen)
	}
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Email":
				return ErrInvalidEmail
			case "Name":
				return ErrInvalidName
			}
		}
		return fmt.Errorf("invalid submission: %w", err)
	}
	return nil
}

// MailtoLink builds a link that opens the visitor's mail client with the
// message prefilled.
func MailtoLink(to, body string) string {
	q := url.Values{}
	q.Set("subject", MailtoSubject)
	q.Set("body", body)
	// mail clients expect %20, not +
	return "mailto:" + to + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}
