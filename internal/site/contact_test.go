package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunshen/portfolio/internal/config"
	"github.com/chunshen/portfolio/internal/store"
)

func postContact(t *testing.T, env *testEnv, body string) contactResult {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/contact", body)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var result contactResult
	decode(t, w, &result)
	return result
}

func messageStatus(t *testing.T, env *testEnv, id string) string {
	t.Helper()
	msg, err := env.db.GetMessage(context.Background(), id)
	require.NoError(t, err)
	return msg.Status
}

func TestContactWithoutRelayFallsBackToMailto(t *testing.T) {
	env := newTestEnv(t, nil)

	result := postContact(t, env, `{"name": "Ada", "email": "ada@example.com", "message": "  Hi there  "}`)
	assert.Equal(t, store.StatusMailto, result.Status)
	assert.True(t, strings.HasPrefix(result.Mailto, "mailto:me@example.com?"), result.Mailto)
	assert.Contains(t, result.Mailto, "body=Hi%20there")
	assert.Equal(t, store.StatusMailto, messageStatus(t, env, result.ID))

	msg, err := env.db.GetMessage(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", msg.Body)
}

func TestContactRelay(t *testing.T) {
	relay := &fakeRelay{}
	env := newTestEnv(t, func(_ *config.Config, o *Options) { o.Relay = relay })

	result := postContact(t, env, `{"message": "Hello"}`)
	assert.Equal(t, store.StatusSent, result.Status)
	assert.Empty(t, result.Mailto)
	assert.Equal(t, []string{"Hello"}, relay.sent)
	assert.Equal(t, store.StatusSent, messageStatus(t, env, result.ID))
}

func TestContactRelayFailure(t *testing.T) {
	relay := &fakeRelay{err: errors.New("connection refused")}
	env := newTestEnv(t, func(_ *config.Config, o *Options) { o.Relay = relay })

	result := postContact(t, env, `{"message": "Hello"}`)
	assert.Equal(t, store.StatusFailed, result.Status)
	assert.NotEmpty(t, result.Mailto, "visitor can still send it themselves")

	msg, err := env.db.GetMessage(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusFailed, msg.Status)
	assert.Equal(t, "connection refused", msg.Error)
}

func TestContactValidation(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config, _ *Options) { c.Contact.MaxLength = 10 })

	tests := []struct {
		name string
		body string
		code int
	}{
		{"empty message", `{"message": "   "}`, http.StatusUnprocessableEntity},
		{"too long", `{"message": "this is far too long"}`, http.StatusUnprocessableEntity},
		{"bad email", `{"email": "nope", "message": "hi"}`, http.StatusUnprocessableEntity},
		{"not json", `message=hi`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/contact", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}

	messages, err := env.db.RecentMessages(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, messages, "rejected submissions are not stored")
}

func postForm(env *testEnv, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, req)
	return w
}

func TestContactForm(t *testing.T) {
	relay := &fakeRelay{}
	env := newTestEnv(t, func(_ *config.Config, o *Options) { o.Relay = relay })

	w := postForm(env, url.Values{"name": {"Ada"}, "message": {"Hello from the form"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you for your message")
	assert.Equal(t, []string{"Hello from the form"}, relay.sent)

	w = postForm(env, url.Values{"message": {""}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "message cannot be empty")
}

func TestContactFormMailto(t *testing.T) {
	env := newTestEnv(t, nil)

	w := postForm(env, url.Values{"message": {"Hi"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Open in your mail app")
	assert.Contains(t, w.Body.String(), "mailto:me@example.com")
}
