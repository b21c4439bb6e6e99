package twse

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

// indexColumns is the column layout of the MI_5MINS_INDEX report: one
// timestamp cell followed by one price cell per index, in this order.
var indexColumns = []struct {
	symbol string
	name   string
}{
	{"IX0001", "發行量加權股價指數"},
	{"IX0007", "未含金融保險股指數"},
	{"IX0008", "未含電子股指數"},
	{"IX0009", "未含金融電子股指數"},
	{"IX0010", "水泥類指數"},
	{"IX0011", "食品類指數"},
	{"IX0012", "塑膠類指數"},
	{"IX0016", "紡織纖維類指數"},
	{"IX0017", "電機機械類指數"},
	{"IX0018", "電器電纜類指數"},
	{"IX0019", "化學生技醫療類指數"},
	{"IX0020", "化學類指數"},
	{"IX0021", "生技醫療類指數"},
	{"IX0022", "玻璃陶瓷類指數"},
	{"IX0023", "造紙類指數"},
	{"IX0024", "鋼鐵類指數"},
	{"IX0025", "橡膠類指數"},
	{"IX0026", "汽車類指數"},
	{"IX0027", "電子工業類指數"},
	{"IX0028", "半導體類指數"},
	{"IX0029", "電腦及週邊設備類指數"},
	{"IX0030", "光電類指數"},
	{"IX0031", "通信網路類指數"},
	{"IX0032", "電子零組件類指數"},
	{"IX0033", "電子通路類指數"},
	{"IX0034", "資訊服務類指數"},
	{"IX0035", "其他電子類指數"},
	{"IX0036", "建材營造類指數"},
	{"IX0037", "航運類指數"},
	{"IX0038", "觀光類指數"},
	{"IX0039", "金融保險類指數"},
	{"IX0040", "貿易百貨類指數"},
	{"IX0041", "油電燃氣類指數"},
	{"IX0042", "其他類指數"},
}

// FetchIndexQuotes builds daily OHLC records for the TAIEX and sector
// indices from the day's 5-minute index ticks. The first tick of the
// day is the reference price; open comes from the earliest remaining
// tick, close from the latest, high/low from the extrema.
func (c *Client) FetchIndexQuotes(ctx context.Context, date string) ([]*models.Ticker, error) {
	compact, err := common.CompactDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("date", compact)

	report, err := c.get(ctx, "/exchangeReport/MI_5MINS_INDEX", params)
	if err != nil || report == nil {
		return nil, err
	}

	series := make(map[string][]float64, len(indexColumns))
	for _, row := range report.Data {
		if len(row) != len(indexColumns)+1 {
			return nil, fmt.Errorf("%w: MI_5MINS_INDEX row has %d cells, want %d",
				models.ErrMalformedField, len(row), len(indexColumns)+1)
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
		ticker.Exchange = models.ExchangeTWSE
		ticker.Market = models.MarketTSE
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

const equityQuoteColumns = 16 // MI_INDEX data9 row width

// FetchEquityQuotes returns per-equity daily quotes from the MI_INDEX
// report. The upDown cell carries the change sign as an HTML fragment;
// one containing "green" denotes a decline.
func (c *Client) FetchEquityQuotes(ctx context.Context, date string) ([]*models.Ticker, error) {
	compact, err := common.CompactDate(date)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("date", compact)
	params.Set("type", "ALLBUT0999")

	report, err := c.get(ctx, "/exchangeReport/MI_INDEX", params)
	if err != nil || report == nil {
		return nil, err
	}

	tickers := make([]*models.Ticker, 0, len(report.Data9))
	for _, row := range report.Data9 {
		if len(row) != equityQuoteColumns {
			return nil, fmt.Errorf("%w: MI_INDEX data9 row has %d cells, want %d",
				models.ErrMalformedField, len(row), equityQuoteColumns)
		}

		symbol, name := trimCell(row[0]), trimCell(row[1])
		if name == "" {
			continue
		}

		ticker := &models.Ticker{
			Date:        date,
			Type:        models.TickerTypeEquity,
			Exchange:    models.ExchangeTWSE,
			Market:      models.MarketTSE,
			Symbol:      symbol,
			Name:        name,
			TradeVolume: common.ParseNumber(row[2]),
			Transaction: common.ParseNumber(row[3]),
			TradeValue:  common.ParseNumber(row[4]),
			OpenPrice:   common.ParseNumber(row[5]),
			HighPrice:   common.ParseNumber(row[6]),
			LowPrice:    common.ParseNumber(row[7]),
			ClosePrice:  common.ParseNumber(row[8]),
		}

		applyNetChange(ticker, row[9], row[10])
		tickers = append(tickers, ticker)
	}

	return tickers, nil
}
