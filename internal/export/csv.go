package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"stockbot/internal/domain"
)

// Fixed output filenames. Two concurrent exports share a name and can
// clobber each other before deletion; a known hazard of the workflow,
// kept as-is.
const (
	AutoOrderFile = "auto_order.csv"
	OrdersFile    = "orders_export.csv"
)

// WriteOrders writes the full orders table to a UTF-8 CSV file with a
// header row, preserving row order.
func WriteOrders(path string, orders []domain.Order) error {
	rows := make([][]string, 0, len(orders)+1)
	rows = append(rows, domain.OrderColumns)
	for _, order := range orders {
		rows = append(rows, order.Row())
	}
	return writeAll(path, rows)
}

// WriteReorderLines writes an auto-order CSV (product, quantity, comment).
func WriteReorderLines(path string, lines []domain.ReorderLine) error {
	rows := make([][]string, 0, len(lines)+1)
	rows = append(rows, domain.ReorderColumns)
	for _, line := range lines {
		rows = append(rows, []string{line.Product, strconv.Itoa(line.Quantity), line.Comment})
	}
	return writeAll(path, rows)
}

func writeAll(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// RemoveQuiet deletes a file on every exit path without ever failing;
// problems end up in the log only.
func RemoveQuiet(path string, logger *zap.Logger) {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		logger.Warn("could not remove temp file", zap.String("path", path), zap.Error(err))
	}
}
