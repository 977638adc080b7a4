package entity

import (
	"errors"
	"fmt"

	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
)

var (
	ErrTemplateNotFound = errors.New("email template not found")
	ErrNotImplemented   = errors.New("notification branch not implemented")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidPayload   = errors.New("invalid event payload")
)

// NotFound reports a required entity that does not exist. It matches
// goerror.ErrNotFound with errors.Is.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, goerror.ErrNotFound)
}

// NotImplemented is returned when a handler meets an enum value it has no
// branch for.
func NotImplemented(event EventType, value any) error {
	return fmt.Errorf("%s: %v: %w", event, value, ErrNotImplemented)
}

// IsRetryable reports whether redelivering the event may succeed. Missing
// entities, bad payloads and configuration mistakes will fail again.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, goerror.ErrNotFound),
		errors.Is(err, ErrInvalidPayload),
		errors.Is(err, ErrUnknownEventType),
		errors.Is(err, ErrTemplateNotFound),
		errors.Is(err, ErrNotImplemented):
		return false
	default:
		return true
	}
}
