// Package service implements the conversation messaging core: the
// conversation directory, the live message stream, the message dispatcher,
// and the unread deriver.
package service

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when an operation requiring an actor
// identity is invoked with none. No network call is made.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrNoActiveConversation is returned when a message is sent with no
// conversation selected.
var ErrNoActiveConversation = errors.New("no active conversation")

// ErrEmptyContent is returned when a message's content trims to nothing.
var ErrEmptyContent = errors.New("message content is empty")

// FetchFailedError reports a failed primary read. Callers may retry.
type FetchFailedError struct {
	Resource string
	Cause    error
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetch %s failed: %v", e.Resource, e.Cause)
}

func (e *FetchFailedError) Unwrap() error {
	return e.Cause
}

// SendFailedError reports a failed message write. The caller keeps the
// composed content for resubmission.
type SendFailedError struct {
	Cause error
}

func (e *SendFailedError) Error() string {
	return fmt.Sprintf("send failed: %v", e.Cause)
}

func (e *SendFailedError) Unwrap() error {
	return e.Cause
}
