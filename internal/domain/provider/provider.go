package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// defaultTimeout bounds a single upstream call. The inbound request context
// is additionally propagated so a dropped client cancels the upstream call.
const defaultTimeout = 30 * time.Second

// Request carries the normalized image payload for one upstream invocation.
type Request struct {
	Image    []byte
	MimeType string
	Question string
}

// Provider is the single capability every upstream adapter implements:
// bytes plus question in, answer text out. New providers are added by
// registering a factory, not by touching the request handler.
type Provider interface {
	Name() string
	Analyze(ctx context.Context, req Request) (string, error)
}

// Config carries everything an adapter needs to talk to its upstream.
type Config struct {
	Type        string
	ModelName   string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// Error is an upstream failure with the HTTP status the provider returned.
// StatusCode is 0 when the call never produced a status (network failure).
type Error struct {
	StatusCode int
	Op         string
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[provider:%s] %s (status %d): %v", e.Op, e.Message, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("[provider:%s] %s (status %d)", e.Op, e.Message, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Class is the coarse failure classification the handler maps to HTTP codes.
type Class int

const (
	// ClassQuotaExceeded is an upstream 429: billing or plan limits reached.
	ClassQuotaExceeded Class = iota
	// ClassUnavailable is any other upstream failure, treated as transient.
	ClassUnavailable
	// ClassUnexpected is a failure outside the provider layer.
	ClassUnexpected
)

// Classify maps an Analyze error to its class. Quota detection is a
// structured status check; anything that is not a provider error at all is
// unexpected.
func Classify(err error) Class {
	var typed *Error
	if errors.As(err, &typed) {
		if typed.StatusCode == http.StatusTooManyRequests {
			return ClassQuotaExceeded
		}
		return ClassUnavailable
	}
	return ClassUnexpected
}
