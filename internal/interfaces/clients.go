package interfaces

import (
	"context"

	"github.com/ryanchou-dev/tickerd/internal/models"
)

// Report clients fetch one provider's end-of-day reports and normalize
// them into canonical ticker records. A nil slice (or nil record) with
// a nil error means the provider published no data for the date, which
// is how non-trading days and not-yet-published reports surface.

// TWSEClient fetches listed-market reports from the Taiwan Stock
// Exchange. Dates are ISO (yyyy-MM-dd); the client handles the
// exchange's compact-date query format.
type TWSEClient interface {
	// FetchIndexQuotes builds daily OHLC records for the TAIEX and the
	// sector indices from the 5-minute index ticks.
	FetchIndexQuotes(ctx context.Context, date string) ([]*models.Ticker, error)

	// FetchEquityQuotes returns per-equity daily quotes.
	FetchEquityQuotes(ctx context.Context, date string) ([]*models.Ticker, error)

	// FetchEquityChips returns per-equity institutional net buy/sell in lots.
	FetchEquityChips(ctx context.Context, date string) ([]*models.Ticker, error)

	// FetchEquityMargins returns per-equity margin purchase and short
	// sale balances with day-over-day changes.
	FetchEquityMargins(ctx context.Context, date string) ([]*models.Ticker, error)

	// FetchEquityShares returns per-equity issued shares and foreign
	// holdings.
	FetchEquityShares(ctx context.Context, date string) ([]*models.Ticker, error)

	// FetchMarketTrades returns the TAIEX daily trade totals.
	FetchMarketTrades(ctx context.Context, date string) (*models.Ticker, error)

	// FetchMarketInstiNetBuySell returns the market-level institutional
	// net buy/sell merged onto the TAIEX record.
	FetchMarketInstiNetBuySell(ctx context.Context, date string) (*models.Ticker, error)

	// FetchMarketMarginTransactions returns market-level credit
	// aggregates merged onto the TAIEX record.
	FetchMarketMarginTransactions(ctx context.Context, date string) (*models.Ticker, error)

	// FetchSectorTrades returns per-sector trade totals. The TAIEX
	// trade value for the same date is the weight denominator and must
	// come from the caller's store.
	FetchSectorTrades(ctx context.Context, date string, taiexTradeValue float64) ([]*models.Ticker, error)
}

// TPExClient fetches OTC-market reports from the Taipei Exchange.
// Dates are ISO; the client converts to the exchange's ROC-calendar
// query format.
type TPExClient interface {
	// FetchIndexQuotes builds daily OHLC records for the TPEx index and
	// the sector indices from the 1-minute index ticks.
	FetchIndexQuotes(ctx context.Context, date string) ([]*models.Ticker, error)

	FetchEquityQuotes(ctx context.Context, date string) ([]*models.Ticker, error)
	FetchEquityChips(ctx context.Context, date string) ([]*models.Ticker, error)
	FetchEquityMargins(ctx context.Context, date string) ([]*models.Ticker, error)

	// FetchMarketTrades returns the TPEx index daily trade totals,
	// extracted from the month table row matching the requested date.
	FetchMarketTrades(ctx context.Context, date string) (*models.Ticker, error)

	// FetchSectorTrades returns per-sector trade value/volume ratios,
	// including the synthesized electronics composite.
	FetchSectorTrades(ctx context.Context, date string) ([]*models.Ticker, error)
}

// TAIFEXClient fetches derivatives positioning from the Taiwan Futures
// Exchange CSV endpoints. All records are merged onto the TAIEX index
// record for the date.
type TAIFEXClient interface {
	// FetchFuturesInstiNetOi returns institutional TAIEX futures net
	// open interest by investor class.
	FetchFuturesInstiNetOi(ctx context.Context, date string) (*models.Ticker, error)

	// FetchOptionsInstiNetOi returns institutional TAIEX options net
	// open interest, calls and puts, by investor class.
	FetchOptionsInstiNetOi(ctx context.Context, date string) (*models.Ticker, error)

	// FetchLargeTraderFuturesNetOi returns the specific top-10 traders'
	// front-month and back-months TAIEX futures net open interest.
	FetchLargeTraderFuturesNetOi(ctx context.Context, date string) (*models.Ticker, error)

	// FetchRetailPosition returns the mini-TAIEX retail net open
	// interest and long/short ratio.
	FetchRetailPosition(ctx context.Context, date string) (*models.Ticker, error)

	// FetchPcRatio returns the TAIEX options put/call OI ratio.
	FetchPcRatio(ctx context.Context, date string) (*models.Ticker, error)

	// FetchUsdTwd returns the USD/TWD daily reference rate.
	FetchUsdTwd(ctx context.Context, date string) (*models.Ticker, error)
}

// MOPSClient fetches the TPEx foreign-shareholding report from the
// Market Observation Post System, served as a Big5-encoded HTML page.
type MOPSClient interface {
	FetchTpexEquityShares(ctx context.Context, date string) ([]*models.Ticker, error)
}
