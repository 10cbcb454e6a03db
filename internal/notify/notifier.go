package notify

import (
	"os"

	"go.uber.org/zap"
)

// Sender is the slice of the chat transport the notifier needs.
type Sender interface {
	SendMessage(chatID int64, text string) error
	SendDocument(chatID int64, path, caption string) error
}

// Notifier delivers best-effort messages to the fixed administrator
// list. A failure for one admin never blocks the rest, and nothing is
// retried.
type Notifier struct {
	sender   Sender
	adminIDs []int64
	logger   *zap.Logger
}

func New(sender Sender, adminIDs []int64, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, adminIDs: adminIDs, logger: logger}
}

// Broadcast sends a text message to every administrator.
func (n *Notifier) Broadcast(text string) {
	for _, adminID := range n.adminIDs {
		if err := n.sender.SendMessage(adminID, text); err != nil {
			n.logger.Warn("admin notification failed", zap.Int64("adminId", adminID), zap.Error(err))
		}
	}
}

// BroadcastFile sends a document with a caption to every administrator.
// If the file is missing the caption is delivered as plain text instead.
func (n *Notifier) BroadcastFile(text, filePath string) {
	if _, err := os.Stat(filePath); err != nil {
		n.Broadcast(text)
		return
	}

	for _, adminID := range n.adminIDs {
		if err := n.sender.SendDocument(adminID, filePath, text); err != nil {
			n.logger.Warn("admin notification failed", zap.Int64("adminId", adminID), zap.Error(err))
		}
	}
}
