package twse

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

const marketTradeColumns = 6 // FMTQIK: roc date, volume, value, transaction, index, change

// FetchMarketTrades returns the TAIEX daily trade totals for the date
// from the FMTQIK month table. Rows carry ROC-calendar dates; only the
// row matching the requested date is kept.
func (c *Client) FetchMarketTrades(ctx context.Context, date string) (*models.Ticker, error) {
	compact, err := common.CompactDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("date", compact)

	report, err := c.get(ctx, "/exchangeReport/FMTQIK", params)
	if err != nil || report == nil {
		return nil, err
	}

	for _, row := range report.Data {
		if len(row) != marketTradeColumns {
			return nil, fmt.Errorf("%w: FMTQIK row has %d cells, want %d",
				models.ErrMalformedField, len(row), marketTradeColumns)
		}

		rowDate, err := common.ParseRocDate(row[0])
		if err != nil || rowDate != date {
			continue
		}

		return &models.Ticker{
			Date:        date,
			Type:        models.TickerTypeIndex,
			Exchange:    models.ExchangeTWSE,
			Market:      models.MarketTSE,
			Symbol:      models.SymbolTAIEX,
			TradeVolume: common.ParseNumber(row[1]),
			TradeValue:  common.ParseNumber(row[2]),
			Transaction: common.ParseNumber(row[3]),
		}, nil
	}

	return nil, nil
}

const sectorTradeColumns = 5 // BFIAMU: name, volume, value, transaction, change

// FetchSectorTrades returns per-sector trade totals from the BFIAMU
// report. Each sector's tradeWeight is its share of the TAIEX trade
// value for the same date, which the caller supplies from the store.
// Rows whose sector name has no index symbol are dropped.
func (c *Client) FetchSectorTrades(ctx context.Context, date string, taiexTradeValue float64) ([]*models.Ticker, error) {
	if taiexTradeValue <= 0 {
		return nil, fmt.Errorf("%w: TAIEX trade value for %s", models.ErrDenominatorMissing, date)
	}

	compact, err := common.CompactDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("date", compact)

	report, err := c.get(ctx, "/exchangeReport/BFIAMU", params)
	if err != nil || report == nil {
		return nil, err
	}

	tickers := make([]*models.Ticker, 0, len(report.Data))
	for _, row := range report.Data {
		if len(row) != sectorTradeColumns {
			return nil, fmt.Errorf("%w: BFIAMU row has %d cells, want %d",
				models.ErrMalformedField, len(row), sectorTradeColumns)
		}

		name := trimCell(row[0])
		symbol, ok := models.SymbolFromSectorName(name, models.ExchangeTWSE)
		if !ok {
			c.logger.Warn().Str("sector", name).Msg("unmapped TWSE sector name, dropping row")
			continue
		}

		tradeValue := common.Deref(common.ParseNumber(row[2]))

		tickers = append(tickers, &models.Ticker{
			Date:        date,
			Type:        models.TickerTypeIndex,
			Exchange:    models.ExchangeTWSE,
			Market:      models.MarketTSE,
			Symbol:      symbol,
			TradeVolume: common.ParseNumber(row[1]),
			TradeValue:  common.Float64Ptr(tradeValue),
			Transaction: common.ParseNumber(row[3]),
			TradeWeight: common.Float64Ptr(common.Round2(tradeValue / taiexTradeValue * 100)),
		})
	}

	return tickers, nil
}
