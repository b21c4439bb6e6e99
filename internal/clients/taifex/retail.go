package taifex

import (
	"context"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

// Daily-market report column names
const (
	headerOpenInterest   = "open_interest"
	headerTradingSession = "Trading Session"
	headerSpreadVolume   = "Volume(executions among spread order and single order only)"
)

// FetchRetailPosition returns the mini-TAIEX retail net open interest
// and long/short ratio. The retail position is what the institutional
// classes do not hold, so their combined net inverts; the ratio divides
// it by the whole-market open interest from the regular session.
func (c *Client) FetchRetailPosition(ctx context.Context, date string) (*models.Ticker, error) {
	netOi, err := c.fetchMtxRetailNetOi(ctx, date)
	if err != nil || netOi == nil {
		return nil, err
	}

	marketOi, err := c.fetchMtxMarketOi(ctx, date)
	if err != nil || marketOi == nil || *marketOi == 0 {
		return nil, err
	}

	ticker := taiexRecord(date)
	ticker.RetailMtxNetOi = netOi
	ticker.RetailMtxLongShortRatio = common.Float64Ptr(common.Round4(*netOi / *marketOi))
	return ticker, nil
}

// fetchMtxRetailNetOi sums the institutional mini-TAIEX net open
// interest and flips the sign.
func (c *Client) fetchMtxRetailNetOi(ctx context.Context, date string) (*float64, error) {
	form, err := dateForm(date)
	if err != nil {
		return nil, err
	}
	form.Set("commodityId", "MXF")

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

	var institutionalNet float64
	for _, row := range rows {
		institutionalNet += row.GetValue(headerOiNet)
	}
	return common.Float64Ptr(-institutionalNet), nil
}

// fetchMtxMarketOi sums the regular-session mini-TAIEX open interest
// across contract months. Spread-order subtotal rows carry a value in
// the spread-volume column and are skipped.
func (c *Client) fetchMtxMarketOi(ctx context.Context, date string) (*float64, error) {
	form, err := dateForm(date)
	if err != nil {
		return nil, err
	}
	form.Set("down_type", "1")
	form.Set("commodity_id", "MTX")

	rows, err := c.postCSV(ctx, "/enl/eng3/futDataDown", form)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	if err := requireHeaders(rows, headerOpenInterest, headerTradingSession, headerSpreadVolume); err != nil {
		return nil, err
	}

	var marketOi float64
	for _, row := range rows {
		if row[headerTradingSession] != "Regular" || row[headerSpreadVolume] != "" {
			continue
		}
		marketOi += row.GetValue(headerOpenInterest)
	}
	return common.Float64Ptr(marketOi), nil
}
