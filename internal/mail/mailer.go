// Package mail delivers composed messages over one of two transports:
// SMTP with an app password, or the Resend HTTP API.
package mail

import (
	"context"
	"errors"
)

// ErrDeliveryFailed wraps transport errors. The workflow aborts without
// recording anything when it sees this, so the words stay eligible for the
// next run.
var ErrDeliveryFailed = errors.New("delivery failed")

// ErrNotConfigured means no transport has usable credentials.
var ErrNotConfigured = errors.New("no mail transport configured")

// Message is a fully-prepared email ready for sending.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender is the transport contract. Implementations must honor the context
// deadline rather than hang.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	// Probe checks credentials/reachability without sending anything.
	Probe(ctx context.Context) error
}
