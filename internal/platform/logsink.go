package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// LogSink is a development stand-in for all three collaborator interfaces.
// It logs every outbound call and returns synthetic handles so the engine
// can run end to end without a gateway adapter attached.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink writing to the given logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) SendDirect(ctx context.Context, userID, content string) (MessageHandle, error) {
	handle := MessageHandle{ChannelID: "dm:" + userID, MessageID: uuid.NewString()}
	s.logger.Info("direct message", "user_id", userID, "message_id", handle.MessageID, "content", content)
	return handle, nil
}

func (s *LogSink) SendToChannel(ctx context.Context, channelID, content string) (MessageHandle, error) {
	handle := MessageHandle{ChannelID: channelID, MessageID: uuid.NewString()}
	s.logger.Info("channel message", "channel_id", channelID, "message_id", handle.MessageID, "content", content)
	return handle, nil
}

func (s *LogSink) CreateSingleUseLink(ctx context.Context, scope string, ttl time.Duration) (string, error) {
	link := fmt.Sprintf("guildflow://join/%s/%s", scope, uuid.NewString())
	s.logger.Info("single-use link issued", "scope", scope, "ttl", ttl, "url", link)
	return link, nil
}

func (s *LogSink) CreateThread(ctx context.Context, parentChannelID, title string) (string, error) {
	threadID := uuid.NewString()
	s.logger.Info("thread created", "parent", parentChannelID, "title", title, "thread_id", threadID)
	return threadID, nil
}

func (s *LogSink) ArchiveThread(ctx context.Context, threadID string) error {
	s.logger.Info("thread archived", "thread_id", threadID)
	return nil
}

func (s *LogSink) DeleteThread(ctx context.Context, threadID string) error {
	s.logger.Info("thread deleted", "thread_id", threadID)
	return nil
}
