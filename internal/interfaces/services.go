package interfaces

import (
	"context"

	"github.com/ryanchou-dev/tickerd/internal/models"
)

// TickerService coordinates report ingestion and serves derived views.
// Update operations fetch, normalize, and upsert; a nil result with a
// nil error means the provider had no data for the date.
type TickerService interface {
	// Ingestion
	UpdateIndexQuotes(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error)
	UpdateEquityQuotes(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error)
	UpdateEquityChips(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error)
	UpdateEquityMargins(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error)
	UpdateEquityShares(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error)
	UpdateMarketTrades(ctx context.Context, date string, exchange models.Exchange) (*models.Ticker, error)
	UpdateSectorTrades(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error)
	UpdateMarketChips(ctx context.Context, date string) ([]*models.Ticker, error)
	UpdateAll(ctx context.Context, date string) error

	// Derived views
	GetMarketInfo(ctx context.Context, req models.MarketInfoRequest) ([]*models.MarketInfo, error)
	GetSectorInfo(ctx context.Context, req models.SectorInfoRequest) ([]*models.SectorInfo, error)
	GetTickersByDate(ctx context.Context, req models.TickersRequest) (*models.TickersByDate, error)
	GetLastTradeDates(ctx context.Context, req models.TradeDatesRequest) ([]string, error)
	GetSymbolStatus(ctx context.Context, req models.SymbolStatusRequest) (*models.SymbolStatus, error)
}
