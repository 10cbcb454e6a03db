package autoorder

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"stockbot/internal/domain"
	"stockbot/internal/export"
	"stockbot/internal/sheets"
)

const (
	mailSubject = "Автоматический заказ на пополнение склада"
	mailBody    = "Во вложении — автозаказ для склада.\n\nЭто письмо сгенерировано автоматически."
)

// ErrAlreadyRunning is returned when a trigger fires while a previous
// evaluation is still in flight.
var ErrAlreadyRunning = errors.New("auto-order evaluation already running")

type StockSource interface {
	StockRecords(ctx context.Context) ([]domain.StockRecord, []sheets.RowError, error)
}

type Mailer interface {
	SendWithAttachment(subject, body, filePath, filename string)
}

type Notifier interface {
	Broadcast(text string)
	BroadcastFile(text, filePath string)
}

// Evaluator scans the stock table, emails a replenishment CSV for every
// product below its minimum, and notifies the administrators. A run
// never propagates an error to its trigger; whatever goes wrong ends up
// as an admin notification and a log line.
type Evaluator struct {
	stock    StockSource
	mailer   Mailer
	notifier Notifier
	logger   *zap.Logger

	csvPath string
	running atomic.Bool
}

func NewEvaluator(stock StockSource, mailer Mailer, notifier Notifier, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		stock:    stock,
		mailer:   mailer,
		notifier: notifier,
		logger:   logger,
		csvPath:  export.AutoOrderFile,
	}
}

// Run performs one evaluation. Scheduled and manual triggers share one
// in-process guard, so an overlapping call reports ErrAlreadyRunning
// instead of running the evaluation twice.
func (e *Evaluator) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Warn("auto-order trigger skipped, evaluation in progress")
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	e.evaluate(ctx)
	return nil
}

func (e *Evaluator) evaluate(ctx context.Context) {
	records, rowErrs, err := e.stock.StockRecords(ctx)
	if err != nil {
		e.logger.Error("auto-order failed", zap.Error(err))
		e.notifier.Broadcast("Ошибка автозаказа: " + err.Error())
		return
	}
	for _, rowErr := range rowErrs {
		e.logger.Warn("skipping malformed stock row", zap.Int("row", rowErr.Row), zap.Error(rowErr.Err))
	}

	lines := ReorderLines(records)
	if len(lines) == 0 {
		e.notifier.Broadcast("Нет товаров для автозаказа.")
		return
	}

	defer export.RemoveQuiet(e.csvPath, e.logger)

	if err := export.WriteReorderLines(e.csvPath, lines); err != nil {
		e.logger.Error("auto-order failed", zap.Error(err))
		e.notifier.Broadcast("Ошибка автозаказа: " + err.Error())
		return
	}

	e.mailer.SendWithAttachment(mailSubject, mailBody, e.csvPath, export.AutoOrderFile)
	e.notifier.BroadcastFile("Автозаказ сформирован и отправлен: "+export.AutoOrderFile, e.csvPath)

	e.logger.Info("auto-order completed", zap.Int("lines", len(lines)))
}

// ReorderLines builds replenishment lines for every record below its
// minimum with a positive batch size, preserving stock table order.
func ReorderLines(records []domain.StockRecord) []domain.ReorderLine {
	var lines []domain.ReorderLine
	for _, rec := range records {
		if rec.NeedsReorder() {
			lines = append(lines, rec.Reorder())
		}
	}
	return lines
}
