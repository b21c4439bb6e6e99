package taifex

import (
	"context"
	"fmt"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

// Large-trader report column names and tags
const (
	headerContract        = "Contract"
	headerSettlementMonth = "Settlement Month"
	headerTraderType      = "Type of Traders"
	headerTop10Buy        = "Top 10_Buy"
	headerTop10Sell       = "Top 10_Sell"

	specificTraderTag = "1"      // specific traders; "0" is non-specific
	allMonthsTag      = "999999" // aggregate row across settlement months
)

// FetchLargeTraderFuturesNetOi returns the specific top-10 traders'
// TAIEX futures net open interest, split into front-month and
// back-months positions. Rows are selected by their tag columns: the
// contract code, the trader-type flag, and the settlement-month cell,
// where 999999 marks the all-months aggregate and the smallest month
// code is the front month. Back months are the all-months net minus
// the front-month net.
func (c *Client) FetchLargeTraderFuturesNetOi(ctx context.Context, date string) (*models.Ticker, error) {
	form, err := dateForm(date)
	if err != nil {
		return nil, err
	}

	rows, err := c.postCSV(ctx, "/enl/eng3/largeTraderFutDown", form)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	if err := requireHeaders(rows, headerDate, headerContract, headerSettlementMonth,
		headerTraderType, headerTop10Buy, headerTop10Sell); err != nil {
		return nil, err
	}
	if rows[0][headerDate] == "" {
		return nil, nil
	}

	var frontMonth, allMonths csvRow
	for _, row := range rows {
		if row[headerContract] != "TX" || row[headerTraderType] != specificTraderTag {
			continue
		}
		month := row[headerSettlementMonth]
		switch {
		case month == allMonthsTag:
			allMonths = row
		case frontMonth == nil || month < frontMonth[headerSettlementMonth]:
			frontMonth = row
		}
	}
	if frontMonth == nil || allMonths == nil {
		return nil, fmt.Errorf("%w: large trader report missing specific-trader TX rows", models.ErrMalformedField)
	}

	frontNet := frontMonth.GetValue(headerTop10Buy) - frontMonth.GetValue(headerTop10Sell)
	allNet := allMonths.GetValue(headerTop10Buy) - allMonths.GetValue(headerTop10Sell)

	ticker := taiexRecord(date)
	ticker.Top10TxFrontMonthNetOi = common.Float64Ptr(frontNet)
	ticker.Top10TxBackMonthsNetOi = common.Float64Ptr(allNet - frontNet)
	return ticker, nil
}
