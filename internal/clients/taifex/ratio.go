package taifex

import (
	"context"

	"github.com/ryanchou-dev/tickerd/internal/models"
)

const (
	headerPcRatio = "Put/Call OI Ratio%"
	headerUsdNtd  = "USD/NTD"
)

// FetchPcRatio returns the TAIEX options put/call open-interest ratio
func (c *Client) FetchPcRatio(ctx context.Context, date string) (*models.Ticker, error) {
	form, err := dateForm(date)
	if err != nil {
		return nil, err
	}

	rows, err := c.postCSV(ctx, "/enl/eng3/pcRatioDown", form)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	if err := requireHeaders(rows, headerDate, headerPcRatio); err != nil {
		return nil, err
	}
	if rows[0][headerDate] == "" {
		return nil, nil
	}

	ticker := taiexRecord(date)
	ticker.PcRatio = rows[0].Get(headerPcRatio)
	return ticker, nil
}

// FetchUsdTwd returns the USD/TWD daily reference rate
func (c *Client) FetchUsdTwd(ctx context.Context, date string) (*models.Ticker, error) {
	form, err := dateForm(date)
	if err != nil {
		return nil, err
	}

	rows, err := c.postCSV(ctx, "/enl/eng3/dailyFXRateDown", form)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	if err := requireHeaders(rows, headerDate, headerUsdNtd); err != nil {
		return nil, err
	}
	if rows[0][headerDate] == "" {
		return nil, nil
	}

	ticker := taiexRecord(date)
	ticker.Usdtwd = rows[0].Get(headerUsdNtd)
	return ticker, nil
}
