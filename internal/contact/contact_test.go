package contact

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		sub     Submission
		wantErr error
	}{
		{name: "message only", sub: Submission{Message: "hi"}},
		{name: "full", sub: Submission{Name: "Ann", Email: "ann@example.com", Message: "hello"}},
		{name: "empty", sub: Submission{Name: "Ann"}, wantErr: ErrEmptyMessage},
		{name: "whitespace only", sub: Submission{Message: "  \n\t "}, wantErr: ErrEmptyMessage},
		{name: "bad email", sub: Submission{Email: "not-an-address", Message: "hi"}, wantErr: ErrInvalidEmail},
		{name: "long name", sub: Submission{Name: strings.Repeat("n", 101), Message: "hi"}, wantErr: ErrInvalidName},
		{name: "too long", sub: Submission{Message: strings.Repeat("é", 11)}, wantErr: ErrMessageTooLong},
		{name: "at limit", sub: Submission{Message: strings.Repeat("é", 10)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Normalize().Validate(10)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMailtoLink(t *testing.T) {
	link := MailtoLink("me@example.com", "hello there & welcome")
	assert.True(t, strings.HasPrefix(link, "mailto:me@example.com?"))
	assert.Contains(t, link, "subject=New%20message%20from%20portfolio%20website")
	assert.Contains(t, link, "body=hello%20there%20%26%20welcome")
	assert.NotContains(t, link, "+")
}

func TestSMTPRelaySend(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	relay := NewSMTPRelay("smtp.example.com", "587", "site@example.com", "pw", "owner@example.com").
		WithSendFunc(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		})
	relay.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	err := relay.Send(context.Background(), Submission{Name: "Ann\r\nBcc: x@evil", Email: "ann@example.com", Message: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "site@example.com", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Portfolio Contact: AnnBcc: x@evil\r\n")
	assert.NotContains(t, msg, "\r\nBcc:")
	assert.Contains(t, msg, "Reply-To: ann@example.com\r\n")
	assert.Contains(t, msg, "Date: Thu, 02 Jan 2025 03:04:05 +0000\r\n")
	assert.Contains(t, msg, "Message:\nhello")
}

func TestSMTPRelayErrors(t *testing.T) {
	assert.ErrorIs(t, NewSMTPRelay("h", "25", "", "", "to@example.com").Send(context.Background(), Submission{}), ErrNotConfigured)

	boom := errors.New("connection refused")
	relay := NewSMTPRelay("h", "25", "u", "p", "to@example.com").
		WithSendFunc(func(string, smtp.Auth, string, []string, []byte) error { return boom })
	assert.ErrorIs(t, relay.Send(context.Background(), Submission{Message: "x"}), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, relay.Send(ctx, Submission{Message: "x"}), context.Canceled)
}
