package notify

import (
	"fmt"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram delivers daily reminders to the user's Telegram chat. It plays the
// role the desktop notification API had in the browser build.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a notifier for the given bot token and chat
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %v", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

// NewTelegramFromEnv creates a notifier from TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID. Both unset means the capability is absent and (nil, nil)
// is returned; reminders then simply stay disabled.
func NewTelegramFromEnv() (*Telegram, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	if token == "" && chatIDStr == "" {
		return nil, nil
	}
	if token == "" || chatIDStr == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must both be set")
	}

	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %v", err)
	}

	return NewTelegram(token, chatID)
}

// Probe verifies the bot can talk to the Telegram API. This is the
// permission-request analog: arming reminders is refused when it fails.
func (t *Telegram) Probe() error {
	if _, err := t.api.GetMe(); err != nil {
		return fmt.Errorf("telegram probe failed: %v", err)
	}
	return nil
}

// SendReminder sends the daily reminder with the incomplete task count
func (t *Telegram) SendReminder(incompleteTasks int) error {
	text := fmt.Sprintf("JEE Prep Reminder\nHey Cheenu, you have %d engineering milestones left!", incompleteTasks)
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %v", err)
	}
	return nil
}
