// Package mocks provides testify mocks for the platform interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/hylexhq/guildflow/internal/platform"
	"github.com/stretchr/testify/mock"
)

// Notifier is a mock for platform.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) SendDirect(ctx context.Context, userID, content string) (platform.MessageHandle, error) {
	args := m.Called(ctx, userID, content)
	return args.Get(0).(platform.MessageHandle), args.Error(1)
}

func (m *Notifier) SendToChannel(ctx context.Context, channelID, content string) (platform.MessageHandle, error) {
	args := m.Called(ctx, channelID, content)
	return args.Get(0).(platform.MessageHandle), args.Error(1)
}

// LinkIssuer is a mock for platform.LinkIssuer.
type LinkIssuer struct {
	mock.Mock
}

func (m *LinkIssuer) CreateSingleUseLink(ctx context.Context, scope string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, scope, ttl)
	return args.String(0), args.Error(1)
}

// Threads is a mock for platform.Threads.
type Threads struct {
	mock.Mock
}

func (m *Threads) CreateThread(ctx context.Context, parentChannelID, title string) (string, error) {
	args := m.Called(ctx, parentChannelID, title)
	return args.String(0), args.Error(1)
}

func (m *Threads) ArchiveThread(ctx context.Context, threadID string) error {
	args := m.Called(ctx, threadID)
	return args.Error(0)
}

func (m *Threads) DeleteThread(ctx context.Context, threadID string) error {
	args := m.Called(ctx, threadID)
	return args.Error(0)
}
