package twse

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

const equityMarginColumns = 16 // MI_MARGN selectType=ALL row width

// FetchEquityMargins returns per-equity margin purchase and short sale
// balances from the MI_MARGN report, with the day-over-day change
// derived from the previous balance columns. Rows with an empty name
// are report footers and are dropped.
func (c *Client) FetchEquityMargins(ctx context.Context, date string) ([]*models.Ticker, error) {
	compact, err := common.CompactDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("date", compact)
	params.Set("selectType", "ALL")

	report, err := c.get(ctx, "/exchangeReport/MI_MARGN", params)
	if err != nil || report == nil {
		return nil, err
	}

	tickers := make([]*models.Ticker, 0, len(report.Data))
	for _, row := range report.Data {
		if len(row) != equityMarginColumns {
			return nil, fmt.Errorf("%w: MI_MARGN row has %d cells, want %d",
				models.ErrMalformedField, len(row), equityMarginColumns)
		}

		symbol, name := trimCell(row[0]), trimCell(row[1])
		if name == "" {
			continue
		}

		marginPrev := common.Deref(common.ParseNumber(row[5]))
		marginBalance := common.Deref(common.ParseNumber(row[6]))
		shortPrev := common.Deref(common.ParseNumber(row[11]))
		shortBalance := common.Deref(common.ParseNumber(row[12]))

		tickers = append(tickers, &models.Ticker{
			Date:                 date,
			Type:                 models.TickerTypeEquity,
			Exchange:             models.ExchangeTWSE,
			Market:               models.MarketTSE,
			Symbol:               symbol,
			Name:                 name,
			MarginPurchase:       common.Float64Ptr(marginBalance),
			MarginPurchaseChange: common.Float64Ptr(marginBalance - marginPrev),
			ShortSale:            common.Float64Ptr(shortBalance),
			ShortSaleChange:      common.Float64Ptr(shortBalance - shortPrev),
		})
	}

	return tickers, nil
}

const (
	creditListRows    = 3 // margin lots, short lots, margin value
	creditListColumns = 6
)

// FetchMarketMarginTransactions returns the market-level credit
// aggregates from the MI_MARGN selectType=MS credit list, merged onto
// the TAIEX record. Margin balance uses the value row; short sale uses
// the lot row.
func (c *Client) FetchMarketMarginTransactions(ctx context.Context, date string) (*models.Ticker, error) {
	compact, err := common.CompactDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("date", compact)
	params.Set("selectType", "MS")

	report, err := c.get(ctx, "/exchangeReport/MI_MARGN", params)
	if err != nil || report == nil {
		return nil, err
	}
	if len(report.CreditList) == 0 {
		return nil, nil
	}

	if len(report.CreditList) != creditListRows {
		return nil, fmt.Errorf("%w: MI_MARGN credit list has %d rows, want %d",
			models.ErrMalformedField, len(report.CreditList), creditListRows)
	}
	for _, row := range report.CreditList {
		if len(row) != creditListColumns {
			return nil, fmt.Errorf("%w: MI_MARGN credit row has %d cells, want %d",
				models.ErrMalformedField, len(row), creditListColumns)
		}
	}

	shortPrev := common.Deref(common.ParseNumber(report.CreditList[1][4]))
	shortBalance := common.Deref(common.ParseNumber(report.CreditList[1][5]))
	valuePrev := common.Deref(common.ParseNumber(report.CreditList[2][4]))
	valueBalance := common.Deref(common.ParseNumber(report.CreditList[2][5]))

	return &models.Ticker{
		Date:                 date,
		Type:                 models.TickerTypeIndex,
		Exchange:             models.ExchangeTWSE,
		Market:               models.MarketTSE,
		Symbol:               models.SymbolTAIEX,
		MarginPurchase:       common.Float64Ptr(valueBalance),
		MarginPurchaseChange: common.Float64Ptr(valueBalance - valuePrev),
		ShortSale:            common.Float64Ptr(shortBalance),
		ShortSaleChange:      common.Float64Ptr(shortBalance - shortPrev),
	}, nil
}
