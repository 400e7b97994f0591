// Package publisher announces finished transcripts to an external channel.
// Publishing sits outside the core request flow: a failed announcement is
// logged and dropped, never surfaced to the saving caller.
package publisher

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/openagora/agora/internal/models"
	"go.uber.org/zap"
)

type Publisher interface {
	PublishTranscript(t *models.Transcript) error
}

// TelegramPublisher posts a short transcript summary to a Telegram chat.
type TelegramPublisher struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewTelegramPublisher(token string, chatID int64, logger *zap.Logger) (*TelegramPublisher, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram publisher: %w", err)
	}
	return &TelegramPublisher{api: api, chatID: chatID, logger: logger}, nil
}

func (p *TelegramPublisher) PublishTranscript(t *models.Transcript) error {
	msg := tgbotapi.NewMessage(p.chatID, formatAnnouncement(t))
	if _, err := p.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send transcript announcement: %w", err)
	}
	p.logger.Info("Published transcript announcement",
		zap.String("transcript_id", t.ID),
		zap.String("project_id", t.ProjectID))
	return nil
}

func formatAnnouncement(t *models.Transcript) string {
	title := t.Metadata.Title
	if title == "" {
		title = fmt.Sprintf("%s / %s", t.ProjectID, t.SessionID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "New transcript saved: %s\n", title)
	fmt.Fprintf(&b, "Messages: %d\n", len(t.Messages))
	if len(t.Metadata.Agents) > 0 {
		fmt.Fprintf(&b, "Agents: %s\n", strings.Join(t.Metadata.Agents, ", "))
	}
	fmt.Fprintf(&b, "Saved at: %s", t.SavedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}
