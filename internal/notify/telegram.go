package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// TelegramConfig configures the Telegram notifier.
type TelegramConfig struct {
	Token string
}

// TelegramNotifier implements schedule.Mailer by posting the subject and
// body as a text message. Recipients are Telegram chat IDs in decimal form.
type TelegramNotifier struct {
	bot *tele.Bot
}

func NewTelegramNotifier(cfg TelegramConfig) (*TelegramNotifier, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	// No poller: this bot only sends.
	b, err := tele.NewBot(tele.Settings{Token: cfg.Token})
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: b}, nil
}

func (t *TelegramNotifier) Send(ctx context.Context, subject, body string, recipients []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var firstErr error
	for _, r := range recipients {
		chatID, err := parseChatID(r)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		text := subject
		if body != "" {
			text += "\n\n" + body
		}
		if _, err := t.bot.Send(&tele.Chat{ID: chatID}, text); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("telegram: send to %d: %w", chatID, err)
			}
		}
	}
	return firstErr
}

func parseChatID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram: recipient %q is not a chat id", s)
	}
	return id, nil
}
