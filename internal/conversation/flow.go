package conversation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stockbot/internal/domain"
	"stockbot/internal/errors"
)

type OrderStore interface {
	Orders(ctx context.Context) ([]domain.Order, error)
	AppendOrder(ctx context.Context, order domain.Order) error
}

type Notifier interface {
	Broadcast(text string)
}

// Flow drives the three-step order intake: product, quantity, comment.
// Invalid input keeps the chat in the same step with a fresh prompt;
// there is no retry limit and no timeout. The final step computes the
// next order ID from the rows read at that moment and appends the
// record, then the session is cleared whether or not the append worked.
type Flow struct {
	store    *Store
	orders   OrderStore
	notifier Notifier
	logger   *zap.Logger
}

func NewFlow(store *Store, orders OrderStore, notifier Notifier, logger *zap.Logger) *Flow {
	return &Flow{store: store, orders: orders, notifier: notifier, logger: logger}
}

// Begin starts (or restarts) the intake for a chat and returns the
// first prompt.
func (f *Flow) Begin(chatID int64) string {
	f.store.Begin(chatID)
	return "Введите название товара для заказа:"
}

// Active reports whether the chat is mid-intake.
func (f *Flow) Active(chatID int64) bool {
	_, ok := f.store.Get(chatID)
	return ok
}

// Advance feeds one message into the chat's state machine. The second
// return value is false when the chat has no active session and the
// input should be handled elsewhere.
func (f *Flow) Advance(ctx context.Context, chatID int64, username, input string) (string, bool) {
	sess, ok := f.store.Get(chatID)
	if !ok {
		return "", false
	}

	switch sess.Step {
	case StepProduct:
		product, err := domain.ValidateProduct(input)
		if err != nil {
			return err.Error(), true
		}
		sess.Product = product
		sess.Step = StepQuantity
		f.store.Set(chatID, sess)
		return "Введите количество (целое число больше 0):", true

	case StepQuantity:
		quantity, err := domain.ValidateQuantity(input)
		if err != nil {
			return err.Error(), true
		}
		sess.Quantity = quantity
		sess.Step = StepComment
		f.store.Set(chatID, sess)
		return "Добавьте комментарий (или напишите '-' если не нужно):", true

	case StepComment:
		comment, err := domain.NormalizeComment(input)
		if err != nil {
			return err.Error(), true
		}
		return f.commit(ctx, chatID, username, sess, comment), true
	}

	return "", false
}

func (f *Flow) commit(ctx context.Context, chatID int64, username string, sess Session, comment string) string {
	// Terminal either way: errors are reported, not retried.
	defer f.store.Clear(chatID)

	existing, err := f.orders.Orders(ctx)
	if err != nil {
		return "Ошибка при создании заказа: " + errors.UserText(err)
	}

	order := domain.Order{
		ID:       domain.NextOrderID(existing),
		Product:  sess.Product,
		Quantity: sess.Quantity,
		Status:   domain.DefaultStatus,
		Comment:  comment,
	}

	if err := f.orders.AppendOrder(ctx, order); err != nil {
		return "Ошибка при создании заказа: " + errors.UserText(err)
	}

	f.logger.Info("order created",
		zap.Int("orderId", order.ID), zap.Int64("chatId", chatID), zap.String("product", order.Product))

	f.notifier.Broadcast(fmt.Sprintf(
		"Поступил новый заказ от @%s\nID: %d\nТовар: %s\nКоличество: %d\nКомментарий: %s",
		username, order.ID, order.Product, order.Quantity, order.Comment))

	return fmt.Sprintf("Заказ создан! ID: %d", order.ID)
}
