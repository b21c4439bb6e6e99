package twse

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

const equityShareColumns = 6 // MI_QFIIS: symbol, name, isin, issued, available, holdings

// FetchEquityShares returns per-equity issued shares and foreign
// holdings from the MI_QFIIS report.
func (c *Client) FetchEquityShares(ctx context.Context, date string) ([]*models.Ticker, error) {
	compact, err := common.CompactDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("date", compact)
	params.Set("selectType", "ALLBUT0999")

	report, err := c.get(ctx, "/fund/MI_QFIIS", params)
	if err != nil || report == nil {
		return nil, err
	}

	tickers := make([]*models.Ticker, 0, len(report.Data))
	for _, row := range report.Data {
		if len(row) != equityShareColumns {
			return nil, fmt.Errorf("%w: MI_QFIIS row has %d cells, want %d",
				models.ErrMalformedField, len(row), equityShareColumns)
		}

		symbol := trimCell(row[0])
		if symbol == "" {
			continue
		}

		tickers = append(tickers, &models.Ticker{
			Date:         date,
			Type:         models.TickerTypeEquity,
			Exchange:     models.ExchangeTWSE,
			Market:       models.MarketTSE,
			Symbol:       symbol,
			IssuedShares: common.ParseNumber(row[3]),
			QfiiHoldings: common.ParseNumber(row[5]),
		})
	}

	return tickers, nil
}
