// Package platform declares the capabilities the workflow core consumes
// from the surrounding chat platform. The core never sees platform SDK
// objects; adapters implement these interfaces at the edge.
package platform

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRecipientUnreachable indicates the recipient cannot receive direct
	// messages (privacy settings, blocked bot). Callers treat this as a
	// permanent delivery failure for the message, not a transient fault.
	ErrRecipientUnreachable = errors.New("recipient unreachable")

	// ErrTransient indicates a delivery fault that may succeed on retry.
	// Adapters wrap rate limits and network errors with it.
	ErrTransient = errors.New("transient platform failure")
)

// MessageHandle locates a delivered message so it can be edited later.
type MessageHandle struct {
	ChannelID string
	MessageID string
}

// Notifier delivers outbound messages.
type Notifier interface {
	SendDirect(ctx context.Context, userID, content string) (MessageHandle, error)
	SendToChannel(ctx context.Context, channelID, content string) (MessageHandle, error)
}

// LinkIssuer mints single-use, time-bounded access links.
type LinkIssuer interface {
	CreateSingleUseLink(ctx context.Context, scope string, ttl time.Duration) (string, error)
}

// Threads manages the lifecycle of per-ticket thread channels.
type Threads interface {
	CreateThread(ctx context.Context, parentChannelID, title string) (string, error)
	ArchiveThread(ctx context.Context, threadID string) error
	DeleteThread(ctx context.Context, threadID string) error
}
