package mail

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"stockbot/internal/config"
)

type fakeDialer struct {
	calls    int
	failures int
	sent     []*gomail.Message
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection reset")
	}
	f.sent = append(f.sent, m...)
	return nil
}

func newTestDispatcher(dialer sender, retries int) *Dispatcher {
	return &Dispatcher{
		cfg: config.MailConfig{
			Address:    "bot@example.com",
			Recipients: []string{"warehouse@example.com"},
			Retries:    retries,
		},
		dialer: dialer,
		logger: zap.NewNop(),
	}
}

func attachmentFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auto_order.csv")
	require.NoError(t, os.WriteFile(path, []byte("Товар,Количество,Комментарий\n"), 0o644))
	return path
}

func TestSendWithAttachment_FirstAttemptSucceeds(t *testing.T) {
	dialer := &fakeDialer{}
	d := newTestDispatcher(dialer, 3)

	d.SendWithAttachment("subject", "body", attachmentFixture(t), "auto_order.csv")

	assert.Equal(t, 1, dialer.calls)
	assert.Len(t, dialer.sent, 1)
}

func TestSendWithAttachment_RetriesThenSucceeds(t *testing.T) {
	dialer := &fakeDialer{failures: 2}
	d := newTestDispatcher(dialer, 3)

	d.SendWithAttachment("subject", "body", attachmentFixture(t), "auto_order.csv")

	assert.Equal(t, 3, dialer.calls)
	assert.Len(t, dialer.sent, 1)
}

func TestSendWithAttachment_ExhaustsRetriesWithoutRaising(t *testing.T) {
	dialer := &fakeDialer{failures: 10}
	d := newTestDispatcher(dialer, 3)

	// Must give up after exactly the configured count and return normally.
	d.SendWithAttachment("subject", "body", attachmentFixture(t), "auto_order.csv")

	assert.Equal(t, 3, dialer.calls)
	assert.Empty(t, dialer.sent)
}

func TestSendWithAttachment_DefaultRetryCount(t *testing.T) {
	dialer := &fakeDialer{failures: 10}
	d := newTestDispatcher(dialer, 0)

	d.SendWithAttachment("subject", "body", attachmentFixture(t), "auto_order.csv")

	assert.Equal(t, 3, dialer.calls)
}
