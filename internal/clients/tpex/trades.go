package tpex

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

const marketTradeColumns = 6 // st41: roc date, volume, value, transaction, index, change

// FetchMarketTrades returns the TPEx index daily trade totals. The
// report is a month table queried by ROC year/month; only the row
// matching the requested date is kept.
func (c *Client) FetchMarketTrades(ctx context.Context, date string) (*models.Ticker, error) {
	rocDate, err := common.RocDate(date)
	if err != nil {
		return nil, err
	}

	// The month table takes yyy/MM
	params := url.Values{}
	params.Set("d", rocDate[:strings.LastIndex(rocDate, "/")])

	report, err := c.get(ctx, "/web/stock/aftertrading/daily_trading_index/st41_result.php", params)
	if err != nil || report == nil {
		return nil, err
	}

	for _, row := range report.Data {
		if len(row) != marketTradeColumns {
			return nil, fmt.Errorf("%w: daily trading row has %d cells, want %d",
				models.ErrMalformedField, len(row), marketTradeColumns)
		}

		rowDate, err := common.ParseRocDate(row[0])
		if err != nil || rowDate != date {
			continue
		}

		return &models.Ticker{
			Date:        date,
			Type:        models.TickerTypeIndex,
			Exchange:    models.ExchangeTPEx,
			Market:      models.MarketOTC,
			Symbol:      models.SymbolTPExIndex,
			TradeVolume: common.ParseNumber(row[1]),
			TradeValue:  common.ParseNumber(row[2]),
			Transaction: common.ParseNumber(row[3]),
		}, nil
	}

	return nil, nil
}

const sectorTradeColumns = 5 // sectr: name, value, value weight, volume, volume weight

// FetchSectorTrades returns per-sector trade value/volume ratios. The
// exchange publishes the trade-value weight directly. An electronics
// composite is synthesized by summing the eight electronics
// sub-sectors, since the report has no row for it. Rows whose sector
// name has no index symbol are dropped.
func (c *Client) FetchSectorTrades(ctx context.Context, date string) ([]*models.Ticker, error) {
	rocDate, err := common.RocDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("d", rocDate)

	report, err := c.get(ctx, "/web/stock/historical/trading_vol_ratio/sectr_result.php", params)
	if err != nil || report == nil {
		return nil, err
	}

	tickers := make([]*models.Ticker, 0, len(report.Data)+1)
	for _, row := range report.Data {
		if len(row) != sectorTradeColumns {
			return nil, fmt.Errorf("%w: sector ratio row has %d cells, want %d",
				models.ErrMalformedField, len(row), sectorTradeColumns)
		}

		name := trimCell(row[0])
		symbol, ok := models.SymbolFromSectorName(name, models.ExchangeTPEx)
		if !ok {
			c.logger.Warn().Str("sector", name).Msg("unmapped TPEx sector name, dropping row")
			continue
		}

		tickers = append(tickers, &models.Ticker{
			Date:        date,
			Type:        models.TickerTypeIndex,
			Exchange:    models.ExchangeTPEx,
			Market:      models.MarketOTC,
			Symbol:      symbol,
			TradeValue:  common.ParseNumber(row[1]),
			TradeWeight: common.ParseNumber(row[2]),
			TradeVolume: common.ParseNumber(row[3]),
		})
	}

	if len(tickers) > 0 {
		tickers = append(tickers, electronicsComposite(date, tickers))
	}

	return tickers, nil
}

// electronicsComposite sums the electronics sub-sector rows into the
// synthesized IX0047 record.
func electronicsComposite(date string, sectors []*models.Ticker) *models.Ticker {
	components := make(map[string]bool, len(models.TpexElectronicsComponents))
	for _, symbol := range models.TpexElectronicsComponents {
		components[symbol] = true
	}

	var volume, value, weight float64
	for _, sector := range sectors {
		if !components[sector.Symbol] {
			continue
		}
		volume += common.Deref(sector.TradeVolume)
		value += common.Deref(sector.TradeValue)
		weight += common.Deref(sector.TradeWeight)
	}

	return &models.Ticker{
		Date:        date,
		Type:        models.TickerTypeIndex,
		Exchange:    models.ExchangeTPEx,
		Market:      models.MarketOTC,
		Symbol:      "IX0047",
		TradeVolume: common.Float64Ptr(volume),
		TradeValue:  common.Float64Ptr(value),
		TradeWeight: common.Float64Ptr(weight),
	}
}
