package tpex

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

const equityChipColumns = 24 // 3itrade_hedge row width

// FetchEquityChips returns per-equity institutional net buy/sell from
// the daily institutional-trading report. Share counts convert to
// board lots; foreign investors and foreign dealers merge into qfii;
// the dealer net uses the report's combined dealer column.
func (c *Client) FetchEquityChips(ctx context.Context, date string) ([]*models.Ticker, error) {
	rocDate, err := common.RocDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("d", rocDate)
	params.Set("se", "EW")
	params.Set("t", "D")

	report, err := c.get(ctx, "/web/stock/3insti/daily_trade/3itrade_hedge_result.php", params)
	if err != nil || report == nil {
		return nil, err
	}

	tickers := make([]*models.Ticker, 0, len(report.Data))
	for _, row := range report.Data {
		if len(row) != equityChipColumns {
			return nil, fmt.Errorf("%w: institutional trading row has %d cells, want %d",
				models.ErrMalformedField, len(row), equityChipColumns)
		}

		fiNet := common.Deref(common.ParseNumber(row[4]))
		fdNet := common.Deref(common.ParseNumber(row[7]))
		itNet := common.Deref(common.ParseNumber(row[13]))
		dNet := common.Deref(common.ParseNumber(row[22]))

		tickers = append(tickers, &models.Ticker{
			Date:              date,
			Type:              models.TickerTypeEquity,
			Exchange:          models.ExchangeTPEx,
			Market:            models.MarketOTC,
			Symbol:            trimCell(row[0]),
			Name:              trimCell(row[1]),
			QfiiNetBuySell:    common.Float64Ptr(common.RoundLots(fiNet + fdNet)),
			SiteNetBuySell:    common.Float64Ptr(common.RoundLots(itNet)),
			DealersNetBuySell: common.Float64Ptr(common.RoundLots(dNet)),
		})
	}

	return tickers, nil
}

const equityMarginColumns = 20 // margin_bal row width

// FetchEquityMargins returns per-equity margin purchase and short sale
// balances. Unlike the listed market, the previous balance leads each
// column group here. Footer rows with an empty name are dropped.
func (c *Client) FetchEquityMargins(ctx context.Context, date string) ([]*models.Ticker, error) {
	rocDate, err := common.RocDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("d", rocDate)

	report, err := c.get(ctx, "/web/stock/margin_trading/margin_balance/margin_bal_result.php", params)
	if err != nil || report == nil {
		return nil, err
	}

	tickers := make([]*models.Ticker, 0, len(report.Data))
	for _, row := range report.Data {
		if len(row) != equityMarginColumns {
			return nil, fmt.Errorf("%w: margin balance row has %d cells, want %d",
				models.ErrMalformedField, len(row), equityMarginColumns)
		}

		symbol, name := trimCell(row[0]), trimCell(row[1])
		if name == "" {
			continue
		}

		marginPrev := common.Deref(common.ParseNumber(row[2]))
		marginBalance := common.Deref(common.ParseNumber(row[6]))
		shortPrev := common.Deref(common.ParseNumber(row[10]))
		shortBalance := common.Deref(common.ParseNumber(row[14]))

		tickers = append(tickers, &models.Ticker{
			Date:                 date,
			Type:                 models.TickerTypeEquity,
			Exchange:             models.ExchangeTPEx,
			Market:               models.MarketOTC,
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
