package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockbot/internal/domain"
	"stockbot/internal/errors"
)

type mockOrderStore struct {
	OrdersFunc      func(ctx context.Context) ([]domain.Order, error)
	AppendOrderFunc func(ctx context.Context, order domain.Order) error

	appended []domain.Order
}

func (m *mockOrderStore) Orders(ctx context.Context) ([]domain.Order, error) {
	return m.OrdersFunc(ctx)
}

func (m *mockOrderStore) AppendOrder(ctx context.Context, order domain.Order) error {
	if m.AppendOrderFunc != nil {
		if err := m.AppendOrderFunc(ctx, order); err != nil {
			return err
		}
	}
	m.appended = append(m.appended, order)
	return nil
}

type recordingNotifier struct {
	texts []string
}

func (r *recordingNotifier) Broadcast(text string) {
	r.texts = append(r.texts, text)
}

func newTestFlow(orders *mockOrderStore, notifier *recordingNotifier) *Flow {
	return NewFlow(NewStore(), orders, notifier, zap.NewNop())
}

func existingOrders(maxID int) func(ctx context.Context) ([]domain.Order, error) {
	return func(ctx context.Context) ([]domain.Order, error) {
		var orders []domain.Order
		for id := 1; id <= maxID; id++ {
			orders = append(orders, domain.Order{ID: id})
		}
		return orders, nil
	}
}

func TestFlow_HappyPath(t *testing.T) {
	ctx := context.Background()
	orders := &mockOrderStore{OrdersFunc: existingOrders(7)}
	notifier := &recordingNotifier{}
	f := newTestFlow(orders, notifier)

	prompt := f.Begin(42)
	assert.Equal(t, "Введите название товара для заказа:", prompt)
	assert.True(t, f.Active(42))

	reply, handled := f.Advance(ctx, 42, "ivan", "Гвозди")
	require.True(t, handled)
	assert.Equal(t, "Введите количество (целое число больше 0):", reply)

	reply, handled = f.Advance(ctx, 42, "ivan", "10")
	require.True(t, handled)
	assert.Equal(t, "Добавьте комментарий (или напишите '-' если не нужно):", reply)

	reply, handled = f.Advance(ctx, 42, "ivan", "-")
	require.True(t, handled)
	assert.Equal(t, "Заказ создан! ID: 8", reply)

	require.Len(t, orders.appended, 1)
	created := orders.appended[0]
	assert.Equal(t, 8, created.ID)
	assert.Equal(t, "Гвозди", created.Product)
	assert.Equal(t, 10, created.Quantity)
	assert.Equal(t, domain.DefaultStatus, created.Status)
	assert.Equal(t, "", created.Comment)

	assert.False(t, f.Active(42), "session is cleared on commit")

	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "@ivan")
	assert.Contains(t, notifier.texts[0], "ID: 8")
}

func TestFlow_FirstOrderGetsIDOne(t *testing.T) {
	ctx := context.Background()
	orders := &mockOrderStore{OrdersFunc: existingOrders(0)}
	f := newTestFlow(orders, &recordingNotifier{})

	f.Begin(1)
	f.Advance(ctx, 1, "u", "Скотч")
	f.Advance(ctx, 1, "u", "2")
	reply, _ := f.Advance(ctx, 1, "u", "")

	assert.Equal(t, "Заказ создан! ID: 1", reply)
}

func TestFlow_InvalidInputStaysInStep(t *testing.T) {
	ctx := context.Background()
	orders := &mockOrderStore{OrdersFunc: existingOrders(0)}
	f := newTestFlow(orders, &recordingNotifier{})

	f.Begin(1)

	// Product rejections keep prompting, no retry limit.
	for _, bad := range []string{"", "   ", strings.Repeat("x", 101)} {
		reply, handled := f.Advance(ctx, 1, "u", bad)
		require.True(t, handled)
		assert.Equal(t, "Название товара не должно быть пустым и не длиннее 100 символов.", reply)
	}

	_, _ = f.Advance(ctx, 1, "u", "Гвозди")

	for _, bad := range []string{"0", "10001", "abc", "-3"} {
		reply, handled := f.Advance(ctx, 1, "u", bad)
		require.True(t, handled)
		assert.Equal(t, "Введите целое число от 1 до 10000.", reply)
	}

	_, _ = f.Advance(ctx, 1, "u", "5")

	reply, handled := f.Advance(ctx, 1, "u", strings.Repeat("x", 201))
	require.True(t, handled)
	assert.Equal(t, "Комментарий не должен быть длиннее 200 символов.", reply)

	// Nothing was committed along the way.
	assert.Empty(t, orders.appended)
	assert.True(t, f.Active(1))
}

func TestFlow_CommentStoredVerbatim(t *testing.T) {
	ctx := context.Background()
	orders := &mockOrderStore{OrdersFunc: existingOrders(1)}
	f := newTestFlow(orders, &recordingNotifier{})

	f.Begin(1)
	f.Advance(ctx, 1, "u", "Краска")
	f.Advance(ctx, 1, "u", "1")
	f.Advance(ctx, 1, "u", "только белая")

	require.Len(t, orders.appended, 1)
	assert.Equal(t, "только белая", orders.appended[0].Comment)
}

func TestFlow_GatewayErrorEndsConversation(t *testing.T) {
	ctx := context.Background()
	orders := &mockOrderStore{
		OrdersFunc: func(ctx context.Context) ([]domain.Order, error) {
			return nil, errors.NewGatewayError(errors.GatewaySheetNotFound, "reading sheet", nil)
		},
	}
	notifier := &recordingNotifier{}
	f := newTestFlow(orders, notifier)

	f.Begin(1)
	f.Advance(ctx, 1, "u", "Краска")
	f.Advance(ctx, 1, "u", "1")
	reply, handled := f.Advance(ctx, 1, "u", "-")

	require.True(t, handled)
	assert.Contains(t, reply, "Ошибка при создании заказа")
	assert.Contains(t, reply, "таблица не найдена")
	assert.False(t, f.Active(1), "session is cleared even when the append fails")
	assert.Empty(t, notifier.texts)
}

func TestFlow_IndependentChats(t *testing.T) {
	ctx := context.Background()
	orders := &mockOrderStore{OrdersFunc: existingOrders(0)}
	f := newTestFlow(orders, &recordingNotifier{})

	f.Begin(1)
	f.Begin(2)

	f.Advance(ctx, 1, "a", "Гвозди")
	f.Advance(ctx, 2, "b", "Краска")

	sess1, _ := f.store.Get(1)
	sess2, _ := f.store.Get(2)
	assert.Equal(t, "Гвозди", sess1.Product)
	assert.Equal(t, "Краска", sess2.Product)
}

func TestFlow_NoSessionNotHandled(t *testing.T) {
	f := newTestFlow(&mockOrderStore{OrdersFunc: existingOrders(0)}, &recordingNotifier{})

	reply, handled := f.Advance(context.Background(), 99, "u", "привет")
	assert.False(t, handled)
	assert.Equal(t, "", reply)
}
