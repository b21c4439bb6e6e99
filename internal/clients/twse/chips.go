package twse

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

const equityChipColumns = 19 // T86 row width

// FetchEquityChips returns per-equity institutional net buy/sell from
// the T86 report. The exchange publishes share counts; nets are
// converted to board lots. Foreign investors and foreign dealers merge
// into one qfii figure; the dealer net uses the report's combined
// dealer column.
func (c *Client) FetchEquityChips(ctx context.Context, date string) ([]*models.Ticker, error) {
	compact, err := common.CompactDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("date", compact)
	params.Set("selectType", "ALLBUT0999")

	report, err := c.get(ctx, "/fund/T86", params)
	if err != nil || report == nil {
		return nil, err
	}

	tickers := make([]*models.Ticker, 0, len(report.Data))
	for _, row := range report.Data {
		if len(row) != equityChipColumns {
			return nil, fmt.Errorf("%w: T86 row has %d cells, want %d",
				models.ErrMalformedField, len(row), equityChipColumns)
		}

		fiNet := common.Deref(common.ParseNumber(row[4]))
		fdNet := common.Deref(common.ParseNumber(row[7]))
		itNet := common.Deref(common.ParseNumber(row[10]))
		dNet := common.Deref(common.ParseNumber(row[11]))

		tickers = append(tickers, &models.Ticker{
			Date:              date,
			Type:              models.TickerTypeEquity,
			Exchange:          models.ExchangeTWSE,
			Market:            models.MarketTSE,
			Symbol:            trimCell(row[0]),
			Name:              trimCell(row[1]),
			QfiiNetBuySell:    common.Float64Ptr(common.RoundLots(fiNet + fdNet)),
			SiteNetBuySell:    common.Float64Ptr(common.RoundLots(itNet)),
			DealersNetBuySell: common.Float64Ptr(common.RoundLots(dNet)),
		})
	}

	return tickers, nil
}

const (
	marketChipRows    = 5 // BFI82U: dealer proprietary, dealer hedge, trust, foreign, foreign dealer
	marketChipColumns = 4
)

// FetchMarketInstiNetBuySell returns the market-level institutional
// net buy/sell (trade value) from the BFI82U report, merged onto the
// TAIEX record.
func (c *Client) FetchMarketInstiNetBuySell(ctx context.Context, date string) (*models.Ticker, error) {
	compact, err := common.CompactDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("type", "day")
	params.Set("dayDate", compact)

	report, err := c.get(ctx, "/fund/BFI82U", params)
	if err != nil || report == nil {
		return nil, err
	}

	if len(report.Data) != marketChipRows {
		return nil, fmt.Errorf("%w: BFI82U has %d rows, want %d",
			models.ErrMalformedField, len(report.Data), marketChipRows)
	}
	for _, row := range report.Data {
		if len(row) != marketChipColumns {
			return nil, fmt.Errorf("%w: BFI82U row has %d cells, want %d",
				models.ErrMalformedField, len(row), marketChipColumns)
		}
	}

	dpNet := common.Deref(common.ParseNumber(report.Data[0][3]))
	dhNet := common.Deref(common.ParseNumber(report.Data[1][3]))
	itNet := common.Deref(common.ParseNumber(report.Data[2][3]))
	fiNet := common.Deref(common.ParseNumber(report.Data[3][3]))
	fdNet := common.Deref(common.ParseNumber(report.Data[4][3]))

	return &models.Ticker{
		Date:              date,
		Type:              models.TickerTypeIndex,
		Exchange:          models.ExchangeTWSE,
		Market:            models.MarketTSE,
		Symbol:            models.SymbolTAIEX,
		QfiiNetBuySell:    common.Float64Ptr(fiNet + fdNet),
		SiteNetBuySell:    common.Float64Ptr(itNet),
		DealersNetBuySell: common.Float64Ptr(dpNet + dhNet),
	}, nil
}
