// Package history turns recent channel messages into the ordered text block
// the composer embeds in analysis prompts.
package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/kayz/kaiseki/internal/logger"
)

// FetchLimit is the number of most recent messages included in a block.
const FetchLimit = 20

// Unavailable is substituted when history cannot be fetched; analysis
// proceeds with it rather than failing.
const Unavailable = "（メッセージ履歴の取得に失敗しました）"

// Message is one retrieved chat message.
type Message struct {
	Author  string
	Content string
}

// Fetcher retrieves the most recent messages of a channel, newest first.
type Fetcher interface {
	RecentMessages(ctx context.Context, channelID string, limit int) ([]Message, error)
}

// Render formats retrieved messages as a chronological block. The input is
// newest-first as delivered by the platform; the output lists oldest first,
// one line per message.
func Render(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		lines = append(lines, fmt.Sprintf("- **%s**: %s", m.Author, m.Content))
	}
	return strings.Join(lines, "\n")
}

// Block fetches and renders a channel's recent history. A fetch failure is
// logged and replaced with the Unavailable placeholder.
func Block(ctx context.Context, f Fetcher, channelID string) string {
	messages, err := f.RecentMessages(ctx, channelID, FetchLimit)
	if err != nil {
		logger.Warn("History fetch failed for channel %s: %v", channelID, err)
		return Unavailable
	}
	return Render(messages)
}
