package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
)

func TestSetupSentry_NoDSN(t *testing.T) {
	if err := SetupSentry(baseConfig()); err != nil {
		t.Fatalf("empty DSN must be a no-op, got %v", err)
	}
}

func TestScrubEvent(t *testing.T) {
	event := &sentry.Event{Request: &sentry.Request{
		URL:     "http://localhost/api/sales",
		Method:  "POST",
		Data:    `{"customerName":"Ada"}`,
		Cookies: "stockledger_session=abc",
		Headers: map[string]string{
			"cookie":        "stockledger_session=abc",
			"Content-Type":  "application/json",
			"Authorization": "Basic x",
		},
	}}

	got := scrubEvent(event, nil)
	if got.Request.Cookies != "" || got.Request.Data != "" {
		t.Fatalf("cookies and body must be dropped: %+v", got.Request)
	}
	if _, ok := got.Request.Headers["cookie"]; ok {
		t.Fatal("cookie header must be dropped regardless of case")
	}
	if _, ok := got.Request.Headers["Authorization"]; ok {
		t.Fatal("authorization header must be dropped")
	}
	if got.Request.Headers["Content-Type"] != "application/json" {
		t.Fatal("other headers must be kept")
	}
	if got.Request.URL == "" || got.Request.Method != "POST" {
		t.Fatal("request line must be kept")
	}
}

func TestScrubEvent_NoRequest(t *testing.T) {
	event := &sentry.Event{Message: "boom"}
	if got := scrubEvent(event, nil); got != event {
		t.Fatal("events without a request pass through")
	}
}

func TestSentryOptions(t *testing.T) {
	cfg := baseConfig()
	cfg.SentryDSN = "https://key@example.invalid/1"
	opts := sentryOptions(cfg)
	if opts.Release != "test-service@test" || opts.Environment != "testing" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.SendDefaultPII || opts.BeforeSend == nil {
		t.Fatal("PII must stay off with the scrubber installed")
	}
}
