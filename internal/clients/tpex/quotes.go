package tpex

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

// indexColumns is the price-column layout of the 1-minute index table:
// one timestamp cell, twenty index prices in this order, then market
// trade totals and order-book counters.
var indexColumns = []struct {
	symbol string
	name   string
}{
	{"IX0044", "櫃檯紡纖類指數"},
	{"IX0045", "櫃檯機械類指數"},
	{"IX0046", "櫃檯鋼鐵類指數"},
	{"IX0048", "櫃檯營建類指數"},
	{"IX0049", "櫃檯航運類指數"},
	{"IX0050", "櫃檯觀光類指數"},
	{"IX0100", "櫃檯其他類指數"},
	{"IX0051", "櫃檯化工類指數"},
	{"IX0052", "櫃檯生技醫療類指數"},
	{"IX0053", "櫃檯半導體類指數"},
	{"IX0054", "櫃檯電腦及週邊類指數"},
	{"IX0055", "櫃檯光電業類指數"},
	{"IX0056", "櫃檯通信網路類指數"},
	{"IX0057", "櫃檯電子零組件類指數"},
	{"IX0058", "櫃檯電子通路類指數"},
	{"IX0059", "櫃檯資訊服務類指數"},
	{"IX0099", "櫃檯其他電子類指數"},
	{"IX0075", "櫃檯文化創意業類指數"},
	{"IX0047", "櫃檯電子類指數"},
	{"IX0043", "櫃檯指數"},
}

// minuteIndexColumns is the full 1MIN row width: timestamp, twenty
// prices, trade value/volume/transaction, and four order counters.
const minuteIndexColumns = 1 + 20 + 7

// FetchIndexQuotes builds daily OHLC records for the TPEx index and
// sector indices from the day's 1-minute index ticks. The first tick
// is the reference price; open comes from the earliest remaining tick,
// close from the latest, high/low from the extrema.
func (c *Client) FetchIndexQuotes(ctx context.Context, date string) ([]*models.Ticker, error) {
	rocDate, err := common.RocDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("d", rocDate)

	report, err := c.get(ctx, "/web/stock/iNdex_info/minute_index/1MIN_result.php", params)
	if err != nil || report == nil {
		return nil, err
	}

	series := make(map[string][]float64, len(indexColumns))
	for _, row := range report.Data {
		if len(row) != minuteIndexColumns {
			return nil, fmt.Errorf("%w: 1MIN row has %d cells, want %d",
				models.ErrMalformedField, len(row), minuteIndexColumns)
		}
		for i, col := range indexColumns {
			price := common.ParseNumber(row[i+1])
			if price == nil {
				continue
			}
			series[col.symbol] = append(series[col.symbol], *price)
		}
	}

	tickers := make([]*models.Ticker, 0, len(indexColumns))
	for _, col := range indexColumns {
		ticks := series[col.symbol]
		if len(ticks) < 2 {
			continue
		}
		ticker := quoteFromTicks(ticks)
		ticker.Date = date
		ticker.Type = models.TickerTypeIndex
		ticker.Exchange = models.ExchangeTPEx
		ticker.Market = models.MarketOTC
		ticker.Symbol = col.symbol
		ticker.Name = col.name
		tickers = append(tickers, ticker)
	}

	return tickers, nil
}

// quoteFromTicks reduces a chronological tick series to a daily quote.
// ticks[0] is the reference price and not part of the session range.
func quoteFromTicks(ticks []float64) *models.Ticker {
	reference := ticks[0]
	session := ticks[1:]

	open, high, low := session[0], session[0], session[0]
	for _, price := range session[1:] {
		if price > high {
			high = price
		}
		if price < low {
			low = price
		}
	}
	closePrice := session[len(session)-1]
	change := closePrice - reference

	return &models.Ticker{
		OpenPrice:     common.Float64Ptr(open),
		HighPrice:     common.Float64Ptr(high),
		LowPrice:      common.Float64Ptr(low),
		ClosePrice:    common.Float64Ptr(closePrice),
		Change:        common.Float64Ptr(change),
		ChangePercent: common.Float64Ptr(common.Round2(change / reference * 100)),
	}
}

// equityQuoteMinColumns is the leading positional width of the daily
// quote rows; the report appends trailing order-book columns that are
// not consumed here.
const equityQuoteMinColumns = 10

// FetchEquityQuotes returns per-equity daily quotes. The change column
// is already signed; the reference price is close minus change.
func (c *Client) FetchEquityQuotes(ctx context.Context, date string) ([]*models.Ticker, error) {
	rocDate, err := common.RocDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("d", rocDate)
	params.Set("se", "EW")

	report, err := c.get(ctx, "/web/stock/aftertrading/otc_quotes_no1430/stk_wn1430_result.php", params)
	if err != nil || report == nil {
		return nil, err
	}

	tickers := make([]*models.Ticker, 0, len(report.Data))
	for _, row := range report.Data {
		if len(row) < equityQuoteMinColumns {
			return nil, fmt.Errorf("%w: daily quote row has %d cells, want at least %d",
				models.ErrMalformedField, len(row), equityQuoteMinColumns)
		}

		symbol, name := trimCell(row[0]), trimCell(row[1])
		if name == "" {
			continue
		}

		ticker := &models.Ticker{
			Date:        date,
			Type:        models.TickerTypeEquity,
			Exchange:    models.ExchangeTPEx,
			Market:      models.MarketOTC,
			Symbol:      symbol,
			Name:        name,
			ClosePrice:  common.ParseNumber(row[2]),
			Change:      common.ParseNumber(row[3]),
			OpenPrice:   common.ParseNumber(row[4]),
			HighPrice:   common.ParseNumber(row[5]),
			LowPrice:    common.ParseNumber(row[6]),
			TradeVolume: common.ParseNumber(row[7]),
			TradeValue:  common.ParseNumber(row[8]),
			Transaction: common.ParseNumber(row[9]),
		}

		if ticker.Change != nil && ticker.ClosePrice != nil {
			reference := *ticker.ClosePrice - *ticker.Change
			ticker.ChangePercent = common.Float64Ptr(common.Round2(*ticker.Change / reference * 100))
		}

		tickers = append(tickers, ticker)
	}

	return tickers, nil
}
