package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"stockbot/internal/errors"
)

// Order is one row of the orders spreadsheet.
type Order struct {
	ID       int
	Product  string
	Quantity int
	Status   string
	Comment  string
}

const (
	DefaultStatus = "В обработке"

	MaxProductLen = 100
	MaxCommentLen = 200
	MaxQuantity   = 10000
	MinQuantity   = 1
)

// Orders spreadsheet column headers.
const (
	ColID       = "ID"
	ColProduct  = "Товар"
	ColQuantity = "Количество"
	ColStatus   = "Статус"
	ColComment  = "Комментарий"
)

var OrderColumns = []string{ColID, ColProduct, ColQuantity, ColStatus, ColComment}

func ValidateProduct(product string) (string, error) {
	product = strings.TrimSpace(product)
	if product == "" || utf8.RuneCountInString(product) > MaxProductLen {
		return "", errors.NewValidationError(
			"Название товара не должно быть пустым и не длиннее 100 символов.")
	}
	return product, nil
}

func ValidateQuantity(input string) (int, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || quantity < MinQuantity || quantity > MaxQuantity {
		return 0, errors.NewValidationError("Введите целое число от 1 до 10000.")
	}
	return quantity, nil
}

// NormalizeComment maps "-" and the empty string to "" and rejects
// comments over 200 characters.
func NormalizeComment(comment string) (string, error) {
	comment = strings.TrimSpace(comment)
	if comment == "-" || comment == "" {
		return "", nil
	}
	if utf8.RuneCountInString(comment) > MaxCommentLen {
		return "", errors.NewValidationError("Комментарий не должен быть длиннее 200 символов.")
	}
	return comment, nil
}

// NextOrderID returns max existing ID + 1, or 1 for an empty table.
// IDs are recomputed from the rows visible at append time with no
// locking, so two concurrent writers can be assigned the same ID.
func NextOrderID(orders []Order) int {
	maxID := 0
	for _, o := range orders {
		if o.ID > maxID {
			maxID = o.ID
		}
	}
	return maxID + 1
}

// ParseOrderRow converts one header-keyed spreadsheet row into an Order.
func ParseOrderRow(row map[string]string) (Order, error) {
	id, err := strconv.Atoi(strings.TrimSpace(row[ColID]))
	if err != nil {
		return Order{}, fmt.Errorf("parsing column %s: %w", ColID, err)
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(row[ColQuantity]))
	if err != nil {
		return Order{}, fmt.Errorf("parsing column %s: %w", ColQuantity, err)
	}
	return Order{
		ID:       id,
		Product:  row[ColProduct],
		Quantity: quantity,
		Status:   row[ColStatus],
		Comment:  row[ColComment],
	}, nil
}

// Row returns the order as spreadsheet cells in OrderColumns order.
func (o Order) Row() []string {
	return []string{
		strconv.Itoa(o.ID), o.Product, strconv.Itoa(o.Quantity), o.Status, o.Comment,
	}
}
