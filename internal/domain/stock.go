package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// StockRecord is one row of the stock spreadsheet. It is read-only from
// this system's perspective.
type StockRecord struct {
	Product string
	Stock   int
	Minimum int
	Batch   int
}

// Stock spreadsheet column headers.
const (
	ColStock   = "Остаток"
	ColMinimum = "Минимум"
	ColBatch   = "Размер пополнения партии"
)

// NeedsReorder reports whether the record qualifies for replenishment.
func (s StockRecord) NeedsReorder() bool {
	return s.Stock < s.Minimum && s.Batch > 0
}

// ReorderLine is one row of a generated auto-order; it lives only as
// long as the CSV file it is written to.
type ReorderLine struct {
	Product  string
	Quantity int
	Comment  string
}

var ReorderColumns = []string{ColProduct, ColQuantity, ColComment}

// Reorder builds the replenishment line for a qualifying stock record.
func (s StockRecord) Reorder() ReorderLine {
	return ReorderLine{
		Product:  s.Product,
		Quantity: s.Batch,
		Comment:  fmt.Sprintf("Автозаказ при остатке %d < минимума %d", s.Stock, s.Minimum),
	}
}

// ParseStockRow converts one header-keyed spreadsheet row into a typed
// StockRecord, reporting the first numeric field that fails to parse.
func ParseStockRow(row map[string]string) (StockRecord, error) {
	rec := StockRecord{Product: row[ColProduct]}

	for _, field := range []struct {
		col string
		dst *int
	}{
		{ColStock, &rec.Stock},
		{ColMinimum, &rec.Minimum},
		{ColBatch, &rec.Batch},
	} {
		v, err := strconv.Atoi(strings.TrimSpace(row[field.col]))
		if err != nil {
			return StockRecord{}, fmt.Errorf("parsing column %s: %w", field.col, err)
		}
		*field.dst = v
	}

	return rec, nil
}
