// Package sheets reads and appends rows of the two Google Sheets that
// hold all durable state (orders and stock). Order IDs are recomputed
// from the rows visible at append time; concurrent writers are not
// serialized, so duplicate IDs are possible. That limitation is
// inherited from the workflow this system automates.
package sheets

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"stockbot/internal/config"
	"stockbot/internal/domain"
	"stockbot/internal/errors"
)

const readRange = "A1:Z"

type Gateway struct {
	svc    *gsheets.Service
	cfg    config.SheetsConfig
	logger *zap.Logger
}

func NewGateway(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Gateway, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Gateway{svc: svc, cfg: cfg, logger: logger}, nil
}

// Orders reads every row of the orders sheet. Rows whose ID or quantity
// fail to parse are skipped with a warning, not treated as failures.
func (g *Gateway) Orders(ctx context.Context) ([]domain.Order, error) {
	records, err := g.readRecords(ctx, g.cfg.OrdersID)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(records))
	for i, record := range records {
		order, err := domain.ParseOrderRow(record)
		if err != nil {
			g.logger.Warn("skipping malformed order row", zap.Int("row", i+2), zap.Error(err))
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// RowError reports one stock row the evaluator must skip, with its
// 1-based spreadsheet row number.
type RowError struct {
	Row int
	Err error
}

// StockRecords reads every row of the stock sheet into typed records.
// Unparsable rows come back as RowErrors so the caller decides how loud
// to be about them.
func (g *Gateway) StockRecords(ctx context.Context) ([]domain.StockRecord, []RowError, error) {
	records, err := g.readRecords(ctx, g.cfg.StockID)
	if err != nil {
		return nil, nil, err
	}

	stock := make([]domain.StockRecord, 0, len(records))
	var rowErrs []RowError
	for i, record := range records {
		rec, err := domain.ParseStockRow(record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: i + 2, Err: err})
			continue
		}
		stock = append(stock, rec)
	}
	return stock, rowErrs, nil
}

// AppendOrder appends one order row to the orders sheet.
func (g *Gateway) AppendOrder(ctx context.Context, order domain.Order) error {
	row := make([]interface{}, 0, len(domain.OrderColumns))
	for _, cell := range order.Row() {
		row = append(row, cell)
	}

	vr := &gsheets.ValueRange{Values: [][]interface{}{row}}
	_, err := g.svc.Spreadsheets.Values.Append(g.cfg.OrdersID, readRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return classify(err, "appending order row")
	}

	g.logger.Info("order appended", zap.Int("orderId", order.ID), zap.String("product", order.Product))
	return nil
}

func (g *Gateway) readRecords(ctx context.Context, spreadsheetID string) ([]map[string]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, classify(err, "reading sheet")
	}
	return recordsFromValues(resp.Values), nil
}

func classify(err error, op string) error {
	if apiErr, ok := err.(*googleapi.Error); ok {
		switch apiErr.Code {
		case http.StatusNotFound:
			return errors.NewGatewayError(errors.GatewaySheetNotFound, op, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewGatewayError(errors.GatewayAccessDenied, op, err)
		}
	}
	return errors.NewGatewayError(errors.GatewayUnknown, op, err)
}
