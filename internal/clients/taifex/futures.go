package taifex

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

// Shared report column names
const (
	headerDate       = "Date"
	headerOiNet      = "Open Interest (Net)"
	headerOiNetValue = "Contract Value of Open Interest (Net)(Thousands)"
)

// dateForm builds the single-day query window the download endpoints
// expect, yyyy/MM/dd on both bounds.
func dateForm(date string) (url.Values, error) {
	slashDate, err := common.SlashDate(date)
	if err != nil {
		return nil, err
	}
	form := url.Values{}
	form.Set("queryStartDate", slashDate)
	form.Set("queryEndDate", slashDate)
	return form, nil
}

// taiexRecord returns the TAIEX index record derivatives reports merge
// onto.
func taiexRecord(date string) *models.Ticker {
	return &models.Ticker{
		Date:     date,
		Type:     models.TickerTypeIndex,
		Exchange: models.ExchangeTWSE,
		Market:   models.MarketTSE,
		Symbol:   models.SymbolTAIEX,
	}
}

// FetchFuturesInstiNetOi returns institutional TAIEX futures net open
// interest. The report carries one row per investor class in dealers,
// investment trust, foreign order.
func (c *Client) FetchFuturesInstiNetOi(ctx context.Context, date string) (*models.Ticker, error) {
	form, err := dateForm(date)
	if err != nil {
		return nil, err
	}
	form.Set("commodityId", "TXF")

	rows, err := c.postCSV(ctx, "/enl/eng3/futContractsDateDown", form)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	if err := requireHeaders(rows, headerDate, headerOiNet); err != nil {
		return nil, err
	}
	if rows[0][headerDate] == "" {
		return nil, nil
	}
	if len(rows) < 3 {
		return nil, fmt.Errorf("%w: futures contract report has %d rows, want 3", models.ErrMalformedField, len(rows))
	}

	dealers, site, qfii := rows[0], rows[1], rows[2]

	ticker := taiexRecord(date)
	ticker.QfiiTxNetOi = qfii.Get(headerOiNet)
	ticker.SiteTxNetOi = site.Get(headerOiNet)
	ticker.DealersTxNetOi = dealers.Get(headerOiNet)
	return ticker, nil
}

// FetchOptionsInstiNetOi returns institutional TAIEX options net open
// interest and contract value, calls and puts. The report carries six
// rows: dealers, investment trust, foreign for calls, then the same
// three for puts.
func (c *Client) FetchOptionsInstiNetOi(ctx context.Context, date string) (*models.Ticker, error) {
	form, err := dateForm(date)
	if err != nil {
		return nil, err
	}
	form.Set("commodityId", "TXO")

	rows, err := c.postCSV(ctx, "/enl/eng3/callsAndPutsDateDown", form)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	if err := requireHeaders(rows, headerDate, headerOiNet, headerOiNetValue); err != nil {
		return nil, err
	}
	if rows[0][headerDate] == "" {
		return nil, nil
	}
	if len(rows) < 6 {
		return nil, fmt.Errorf("%w: options contract report has %d rows, want 6", models.ErrMalformedField, len(rows))
	}

	dealersCalls, siteCalls, qfiiCalls := rows[0], rows[1], rows[2]
	dealersPuts, sitePuts, qfiiPuts := rows[3], rows[4], rows[5]

	ticker := taiexRecord(date)
	ticker.QfiiTxoCallsNetOi = qfiiCalls.Get(headerOiNet)
	ticker.QfiiTxoCallsNetOiValue = qfiiCalls.Get(headerOiNetValue)
	ticker.SiteTxoCallsNetOi = siteCalls.Get(headerOiNet)
	ticker.SiteTxoCallsNetOiValue = siteCalls.Get(headerOiNetValue)
	ticker.DealersTxoCallsNetOi = dealersCalls.Get(headerOiNet)
	ticker.DealersTxoCallsNetOiValue = dealersCalls.Get(headerOiNetValue)
	ticker.QfiiTxoPutsNetOi = qfiiPuts.Get(headerOiNet)
	ticker.QfiiTxoPutsNetOiValue = qfiiPuts.Get(headerOiNetValue)
	ticker.SiteTxoPutsNetOi = sitePuts.Get(headerOiNet)
	ticker.SiteTxoPutsNetOiValue = sitePuts.Get(headerOiNetValue)
	ticker.DealersTxoPutsNetOi = dealersPuts.Get(headerOiNet)
	ticker.DealersTxoPutsNetOiValue = dealersPuts.Get(headerOiNetValue)
	return ticker, nil
}
