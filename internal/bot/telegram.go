package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram wraps the Bot API client behind the narrow surface the rest
// of the system needs. It also satisfies notify.Sender.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

func NewTelegram(token string, logger *zap.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot api: %w", err)
	}

	logger.Info("bot authorized", zap.String("username", api.Self.UserName))
	return &Telegram{api: api, logger: logger}, nil
}

func (t *Telegram) SendText(chatID int64, text string) error {
	_, err := t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (t *Telegram) SendHTML(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	_, err := t.api.Send(msg)
	return err
}

func (t *Telegram) SendDocument(chatID int64, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	_, err := t.api.Send(doc)
	return err
}

func (t *Telegram) AnswerCallback(id string) error {
	_, err := t.api.Request(tgbotapi.NewCallback(id, ""))
	return err
}

// SendMessage implements notify.Sender.
func (t *Telegram) SendMessage(chatID int64, text string) error {
	return t.SendText(chatID, text)
}

// Updates opens the long-polling update channel.
func (t *Telegram) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return t.api.GetUpdatesChan(u)
}

// Stop shuts the update channel down.
func (t *Telegram) Stop() {
	t.api.StopReceivingUpdates()
}
