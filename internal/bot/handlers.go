package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"stockbot/internal/autoorder"
	"stockbot/internal/config"
	"stockbot/internal/conversation"
	"stockbot/internal/domain"
	"stockbot/internal/errors"
	"stockbot/internal/export"
)

const (
	startText = "<b>Добро пожаловать!</b>\n\n" +
		"Я — <b>бот для автоматизации складских заказов</b>.\n" +
		"Я контролирую остатки на складе, автоматически формирую и отправляю автозаказы, " +
		"а также помогаю работать с заказами через Telegram.\n\n" +
		"Нажмите кнопку или используйте /help для подробностей."

	helpText = "<b>Справка по командам:</b>\n\n" +
		"/start — краткая информация и запуск меню.\n" +
		"/help — показать это описание.\n" +
		"/orders — вывести список всех текущих заказов.\n" +
		"/status &lt;id&gt; — узнать статус заказа по его ID.\n" +
		"/generate_csv — выгрузить все заказы в CSV-файл.\n" +
		"/upload_csv — отправить файл заказов CSV на email.\n" +
		"/new_order — добавить новый заказ (пошагово).\n" +
		"/manual_auto_order — вручную вызвать автозаказ (только для админов).\n\n" +
		"<b>Что я делаю?</b>\n" +
		"— Автоматически слежу за остатками на складе (Google Sheets),\n" +
		"— Формирую и отправляю автозаказ при нехватке товаров,\n" +
		"— Веду журнал событий и оповещаю администраторов,\n" +
		"— Позволяю работать с заказами прямо из Telegram."
)

type Transport interface {
	SendText(chatID int64, text string) error
	SendHTML(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error
	SendDocument(chatID int64, path, caption string) error
	AnswerCallback(id string) error
}

type OrderSource interface {
	Orders(ctx context.Context) ([]domain.Order, error)
}

type Mailer interface {
	SendWithAttachment(subject, body, filePath, filename string)
}

type Notifier interface {
	Broadcast(text string)
	BroadcastFile(text, filePath string)
}

type Evaluator interface {
	Run(ctx context.Context) error
}

// Handler maps commands and menu callbacks to their read-only queries
// and routes free text into the active intake conversation. Every
// handler is independently fallible: errors become a plain-text reply
// and never escalate past this boundary.
type Handler struct {
	transport Transport
	orders    OrderSource
	flow      *conversation.Flow
	evaluator Evaluator
	mailer    Mailer
	notifier  Notifier
	botCfg    config.BotConfig
	logger    *zap.Logger

	exportPath string
}

func NewHandler(
	transport Transport,
	orders OrderSource,
	flow *conversation.Flow,
	evaluator Evaluator,
	mailer Mailer,
	notifier Notifier,
	botCfg config.BotConfig,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		transport:  transport,
		orders:     orders,
		flow:       flow,
		evaluator:  evaluator,
		mailer:     mailer,
		notifier:   notifier,
		botCfg:     botCfg,
		logger:     logger,
		exportPath: export.OrdersFile,
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		h.HandleCommand(ctx, update.Message.Chat.ID, userID(update.Message), userName(update.Message),
			update.Message.Command(), update.Message.CommandArguments())
	case update.Message != nil:
		h.HandleText(ctx, update.Message.Chat.ID, userName(update.Message), update.Message.Text)
	}
}

func (h *Handler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if err := h.transport.AnswerCallback(cq.ID); err != nil {
		h.logger.Warn("answering callback", zap.Error(err))
	}
	if cq.Message == nil {
		return
	}
	h.HandleCallbackData(ctx, cq.Message.Chat.ID, cq.Data)
}

// HandleCallbackData serves a menu button press. Unknown callback data
// is answered silently.
func (h *Handler) HandleCallbackData(ctx context.Context, chatID int64, data string) {
	switch data {
	case "main_menu":
		h.sendHTML(chatID, "Главное меню:", mainMenu())
	case "help":
		h.cmdHelp(chatID)
	case "orders":
		h.cmdOrders(ctx, chatID)
	case "generate_csv":
		h.cmdGenerateCSV(ctx, chatID)
	case "new_order":
		h.cmdNewOrder(chatID)
	}
}

// HandleCommand serves one slash command.
func (h *Handler) HandleCommand(ctx context.Context, chatID, fromID int64, username, command, args string) {
	switch command {
	case "start":
		h.sendHTML(chatID, startText, mainMenu())
	case "help":
		h.cmdHelp(chatID)
	case "orders":
		h.cmdOrders(ctx, chatID)
	case "status":
		h.cmdStatus(ctx, chatID, args)
	case "generate_csv":
		h.cmdGenerateCSV(ctx, chatID)
	case "upload_csv":
		h.cmdUploadCSV(ctx, chatID)
	case "new_order":
		h.cmdNewOrder(chatID)
	case "manual_auto_order":
		h.cmdManualAutoOrder(ctx, chatID, fromID)
	default:
		h.sendText(chatID, "Неизвестная команда. Используйте /help.")
	}
}

// HandleText routes non-command text into the active intake
// conversation; text outside a conversation is ignored.
func (h *Handler) HandleText(ctx context.Context, chatID int64, username, text string) {
	if reply, handled := h.flow.Advance(ctx, chatID, username, text); handled {
		h.sendText(chatID, reply)
	}
}

func (h *Handler) cmdHelp(chatID int64) {
	h.sendHTML(chatID, helpText, helpMenu())
}

func (h *Handler) cmdOrders(ctx context.Context, chatID int64) {
	orders, err := h.orders.Orders(ctx)
	if err != nil {
		h.sendText(chatID, "Ошибка при получении списка заказов: "+errors.UserText(err))
		return
	}
	if len(orders) == 0 {
		h.sendText(chatID, "Список заказов пуст.")
		return
	}

	var b strings.Builder
	b.WriteString("<b>Текущие заказы:</b>\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "ID: <code>%d</code> | Товар: <b>%s</b> | Кол-во: %d | Статус: <i>%s</i>\n",
			o.ID, o.Product, o.Quantity, o.Status)
	}
	h.sendHTML(chatID, b.String(), nil)
}

func (h *Handler) cmdStatus(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		h.sendText(chatID, "Используйте: /status <id>")
		return
	}
	wantID := fields[0]

	orders, err := h.orders.Orders(ctx)
	if err != nil {
		h.sendText(chatID, "Ошибка при получении статуса заказа: "+errors.UserText(err))
		return
	}
	if len(orders) == 0 {
		h.sendText(chatID, "Список заказов пуст.")
		return
	}

	for _, o := range orders {
		if strconv.Itoa(o.ID) == wantID {
			h.sendHTML(chatID, fmt.Sprintf(
				"<b>Статус заказа #%d:</b>\nТовар: <b>%s</b>\nКоличество: %d\nСтатус: <i>%s</i>\nКомментарий: %s",
				o.ID, o.Product, o.Quantity, o.Status, o.Comment), nil)
			return
		}
	}
	h.sendText(chatID, fmt.Sprintf("Заказ с ID %s не найден.", wantID))
}

func (h *Handler) cmdGenerateCSV(ctx context.Context, chatID int64) {
	orders, err := h.orders.Orders(ctx)
	if err != nil {
		h.sendText(chatID, "Ошибка при генерации CSV: "+errors.UserText(err))
		return
	}
	if len(orders) == 0 {
		h.sendText(chatID, "Нет заказов для выгрузки.")
		return
	}

	defer export.RemoveQuiet(h.exportPath, h.logger)

	if err := export.WriteOrders(h.exportPath, orders); err != nil {
		h.sendText(chatID, "Ошибка при генерации CSV: "+err.Error())
		return
	}
	if err := h.transport.SendDocument(chatID, h.exportPath, "Выгрузка заказов в CSV."); err != nil {
		h.logger.Warn("sending csv document", zap.Int64("chatId", chatID), zap.Error(err))
	}
}

func (h *Handler) cmdUploadCSV(ctx context.Context, chatID int64) {
	orders, err := h.orders.Orders(ctx)
	if err != nil {
		h.sendText(chatID, "Ошибка при отправке файла: "+errors.UserText(err))
		return
	}
	if len(orders) == 0 {
		h.sendText(chatID, "Нет заказов для выгрузки.")
		return
	}

	defer export.RemoveQuiet(h.exportPath, h.logger)

	if err := export.WriteOrders(h.exportPath, orders); err != nil {
		h.sendText(chatID, "Ошибка при отправке файла: "+err.Error())
		return
	}

	h.mailer.SendWithAttachment(
		"Выгрузка заказов (ручная команда)",
		"Во вложении — файл заказов (ручная выгрузка через Telegram).",
		h.exportPath, export.OrdersFile)

	h.sendText(chatID, "Файл выгружен и отправлен на email.")
	h.notifier.BroadcastFile("Выполнена команда /upload_csv — файл отправлен на email.", h.exportPath)
}

func (h *Handler) cmdNewOrder(chatID int64) {
	h.sendText(chatID, h.flow.Begin(chatID))
}

func (h *Handler) cmdManualAutoOrder(ctx context.Context, chatID, fromID int64) {
	if !h.botCfg.IsAdmin(fromID) {
		h.sendText(chatID, "Только для администраторов.")
		return
	}

	if err := h.evaluator.Run(ctx); err == autoorder.ErrAlreadyRunning {
		h.sendText(chatID, "Автозаказ уже выполняется.")
		return
	}
	h.sendText(chatID, "Автозаказ выполнен (см. уведомления и почту).")
}

func (h *Handler) sendText(chatID int64, text string) {
	if err := h.transport.SendText(chatID, text); err != nil {
		h.logger.Warn("sending message", zap.Int64("chatId", chatID), zap.Error(err))
	}
}

func (h *Handler) sendHTML(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if err := h.transport.SendHTML(chatID, text, kb); err != nil {
		h.logger.Warn("sending message", zap.Int64("chatId", chatID), zap.Error(err))
	}
}

func userID(m *tgbotapi.Message) int64 {
	if m.From == nil {
		return 0
	}
	return m.From.ID
}

func userName(m *tgbotapi.Message) string {
	if m.From == nil {
		return ""
	}
	if m.From.UserName != "" {
		return m.From.UserName
	}
	return strconv.FormatInt(m.From.ID, 10)
}
