package model

import (
	"time"
)

// HeartbeatEvent keeps SSE connections alive between live inserts.
type HeartbeatEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// ErrorEvent is sent on an SSE stream when replay or delivery fails.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReplayCompleteEvent marks the end of history replay on an SSE stream.
type ReplayCompleteEvent struct {
	MessageCount int `json:"message_count"`
}
