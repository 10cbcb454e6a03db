package mail

import (
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"stockbot/internal/config"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Dispatcher delivers mail with one attachment over an authenticated
// SSL session. Delivery is best-effort: a send that exhausts its
// retries is logged as a terminal failure and nothing is reported back,
// so callers must not assume the mail arrived.
type Dispatcher struct {
	cfg    config.MailConfig
	dialer sender
	logger *zap.Logger
}

func NewDispatcher(cfg config.MailConfig, logger *zap.Logger) *Dispatcher {
	d := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.Address, cfg.Password)
	d.SSL = true

	return &Dispatcher{cfg: cfg, dialer: d, logger: logger}
}

// SendWithAttachment composes a plain-text message carrying the file at
// filePath (attached under filename) and tries delivery up to the
// configured retry count, with no backoff between attempts.
func (d *Dispatcher) SendWithAttachment(subject, body, filePath, filename string) {
	m := gomail.NewMessage()
	m.SetHeader("From", d.cfg.Address)
	m.SetHeader("To", d.cfg.Recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.Attach(filePath, gomail.Rename(filename))

	retries := d.cfg.Retries
	if retries <= 0 {
		retries = 3
	}

	for attempt := 1; attempt <= retries; attempt++ {
		err := d.dialer.DialAndSend(m)
		if err == nil {
			d.logger.Info("email sent", zap.String("filename", filename))
			return
		}
		d.logger.Warn("email send failed",
			zap.Int("attempt", attempt), zap.Int("retries", retries), zap.Error(err))
	}

	d.logger.Error("giving up on email", zap.String("filename", filename), zap.Int("retries", retries))
}
