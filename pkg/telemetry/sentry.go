package telemetry

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/stockledger/pkg/config"
)

const (
	sentryFlushTimeout   = 2 * time.Second
	sentryCaptureTimeout = 2 * time.Second
	sentryTraceRate      = 0.2
)

// scrubbedHeaders never leave the process; the session cookie names a user.
var scrubbedHeaders = []string{"Cookie", "Set-Cookie", "Authorization"}

// SetupSentry initializes the Sentry SDK. No-ops if DSN is empty.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentryOptions(cfg)); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("service", cfg.ServiceName)
		scope.SetTag("store_backend", cfg.StoreBackend)
	})
	return nil
}

func sentryOptions(cfg *config.Config) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		TracesSampleRate: sentryTraceRate,
		SendDefaultPII:   false,
		BeforeSend:       scrubEvent,
	}
}

// scrubEvent drops credentials and request bodies from captured events.
// Sale bodies carry customer names.
func scrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request == nil {
		return event
	}
	event.Request.Cookies = ""
	event.Request.Data = ""
	for name := range event.Request.Headers {
		for _, h := range scrubbedHeaders {
			if strings.EqualFold(name, h) {
				delete(event.Request.Headers, name)
			}
		}
	}
	return event
}

// SentryFlush flushes buffered events before process exit.
func SentryFlush() {
	sentry.Flush(sentryFlushTimeout)
}

// SentryMiddleware captures panics, then re-panics so Recovery still answers 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         sentryCaptureTimeout,
	}).Handle
}
