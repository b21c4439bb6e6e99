// Package ticker coordinates report ingestion and derived market views
package ticker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/interfaces"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

// Service implements TickerService
type Service struct {
	storage interfaces.StorageManager
	twse    interfaces.TWSEClient
	tpex    interfaces.TPExClient
	taifex  interfaces.TAIFEXClient
	mops    interfaces.MOPSClient
	logger  *common.Logger

	rankingTop int
	fetchDelay time.Duration
}

// NewService creates a new ticker service
func NewService(
	storage interfaces.StorageManager,
	twse interfaces.TWSEClient,
	tpex interfaces.TPExClient,
	taifex interfaces.TAIFEXClient,
	mops interfaces.MOPSClient,
	logger *common.Logger,
	config *common.Config,
) *Service {
	return &Service{
		storage:    storage,
		twse:       twse,
		tpex:       tpex,
		taifex:     taifex,
		mops:       mops,
		logger:     logger,
		rankingTop: config.Rankings.Top,
		fetchDelay: config.Scheduler.GetFetchDelay(),
	}
}

// upsertAll writes every record through the additive merge path
func (s *Service) upsertAll(ctx context.Context, tickers []*models.Ticker) error {
	store := s.storage.TickerStore()
	for _, ticker := range tickers {
		if err := store.UpsertTicker(ctx, ticker); err != nil {
			return fmt.Errorf("upsert %s: %w", ticker.Key(), err)
		}
	}
	return nil
}

// UpdateIndexQuotes ingests daily index OHLC records for one exchange
func (s *Service) UpdateIndexQuotes(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error) {
	var tickers []*models.Ticker
	var err error
	switch exchange {
	case models.ExchangeTWSE:
		tickers, err = s.twse.FetchIndexQuotes(ctx, date)
	case models.ExchangeTPEx:
		tickers, err = s.tpex.FetchIndexQuotes(ctx, date)
	default:
		return nil, fmt.Errorf("unsupported exchange %q for index quotes", exchange)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch index quotes: %w", err)
	}
	if len(tickers) == 0 {
		s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Msg("no index quotes for date")
		return nil, nil
	}
	if err := s.upsertAll(ctx, tickers); err != nil {
		return nil, err
	}
	s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Int("count", len(tickers)).Msg("index quotes updated")
	return tickers, nil
}

// UpdateEquityQuotes ingests daily equity quotes for one exchange
func (s *Service) UpdateEquityQuotes(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error) {
	var tickers []*models.Ticker
	var err error
	switch exchange {
	case models.ExchangeTWSE:
		tickers, err = s.twse.FetchEquityQuotes(ctx, date)
	case models.ExchangeTPEx:
		tickers, err = s.tpex.FetchEquityQuotes(ctx, date)
	default:
		return nil, fmt.Errorf("unsupported exchange %q for equity quotes", exchange)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch equity quotes: %w", err)
	}
	if len(tickers) == 0 {
		s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Msg("no equity quotes for date")
		return nil, nil
	}
	if err := s.upsertAll(ctx, tickers); err != nil {
		return nil, err
	}
	s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Int("count", len(tickers)).Msg("equity quotes updated")
	return tickers, nil
}

// UpdateEquityChips ingests per-equity institutional net buy/sell
func (s *Service) UpdateEquityChips(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error) {
	var tickers []*models.Ticker
	var err error
	switch exchange {
	case models.ExchangeTWSE:
		tickers, err = s.twse.FetchEquityChips(ctx, date)
	case models.ExchangeTPEx:
		tickers, err = s.tpex.FetchEquityChips(ctx, date)
	default:
		return nil, fmt.Errorf("unsupported exchange %q for equity chips", exchange)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch equity chips: %w", err)
	}
	if len(tickers) == 0 {
		s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Msg("no equity chips for date")
		return nil, nil
	}
	if err := s.upsertAll(ctx, tickers); err != nil {
		return nil, err
	}
	s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Int("count", len(tickers)).Msg("equity chips updated")
	return tickers, nil
}

// UpdateEquityMargins ingests per-equity margin and short-sale balances
func (s *Service) UpdateEquityMargins(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error) {
	var tickers []*models.Ticker
	var err error
	switch exchange {
	case models.ExchangeTWSE:
		tickers, err = s.twse.FetchEquityMargins(ctx, date)
	case models.ExchangeTPEx:
		tickers, err = s.tpex.FetchEquityMargins(ctx, date)
	default:
		return nil, fmt.Errorf("unsupported exchange %q for equity margins", exchange)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch equity margins: %w", err)
	}
	if len(tickers) == 0 {
		s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Msg("no equity margins for date")
		return nil, nil
	}
	if err := s.upsertAll(ctx, tickers); err != nil {
		return nil, err
	}
	s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Int("count", len(tickers)).Msg("equity margins updated")
	return tickers, nil
}

// UpdateEquityShares ingests issued shares and foreign holdings. The
// listed market publishes these on the exchange itself; the OTC market
// report lives on MOPS.
func (s *Service) UpdateEquityShares(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error) {
	var tickers []*models.Ticker
	var err error
	switch exchange {
	case models.ExchangeTWSE:
		tickers, err = s.twse.FetchEquityShares(ctx, date)
	case models.ExchangeTPEx:
		tickers, err = s.mops.FetchTpexEquityShares(ctx, date)
	default:
		return nil, fmt.Errorf("unsupported exchange %q for equity shares", exchange)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch equity shares: %w", err)
	}
	if len(tickers) == 0 {
		s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Msg("no equity shares for date")
		return nil, nil
	}
	if err := s.upsertAll(ctx, tickers); err != nil {
		return nil, err
	}
	s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Int("count", len(tickers)).Msg("equity shares updated")
	return tickers, nil
}

// UpdateMarketTrades ingests the market index daily trade totals
func (s *Service) UpdateMarketTrades(ctx context.Context, date string, exchange models.Exchange) (*models.Ticker, error) {
	var ticker *models.Ticker
	var err error
	switch exchange {
	case models.ExchangeTWSE:
		ticker, err = s.twse.FetchMarketTrades(ctx, date)
	case models.ExchangeTPEx:
		ticker, err = s.tpex.FetchMarketTrades(ctx, date)
	default:
		return nil, fmt.Errorf("unsupported exchange %q for market trades", exchange)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch market trades: %w", err)
	}
	if ticker == nil {
		s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Msg("no market trades for date")
		return nil, nil
	}
	if err := s.storage.TickerStore().UpsertTicker(ctx, ticker); err != nil {
		return nil, fmt.Errorf("upsert %s: %w", ticker.Key(), err)
	}
	s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Msg("market trades updated")
	return ticker, nil
}

// UpdateSectorTrades ingests per-sector trade totals. The listed-market
// weight denominator is the TAIEX trade value already in the store for
// the same date; without it the update fails closed.
func (s *Service) UpdateSectorTrades(ctx context.Context, date string, exchange models.Exchange) ([]*models.Ticker, error) {
	var tickers []*models.Ticker
	var err error
	switch exchange {
	case models.ExchangeTWSE:
		var taiexTradeValue float64
		taiexTradeValue, err = s.taiexTradeValue(ctx, date)
		if err != nil {
			return nil, err
		}
		tickers, err = s.twse.FetchSectorTrades(ctx, date, taiexTradeValue)
	case models.ExchangeTPEx:
		tickers, err = s.tpex.FetchSectorTrades(ctx, date)
	default:
		return nil, fmt.Errorf("unsupported exchange %q for sector trades", exchange)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch sector trades: %w", err)
	}
	if len(tickers) == 0 {
		s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Msg("no sector trades for date")
		return nil, nil
	}
	if err := s.upsertAll(ctx, tickers); err != nil {
		return nil, err
	}
	s.logger.Info().Str("date", date).Str("exchange", string(exchange)).Int("count", len(tickers)).Msg("sector trades updated")
	return tickers, nil
}

// taiexTradeValue reads the TAIEX trade value for the exact date
func (s *Service) taiexTradeValue(ctx context.Context, date string) (float64, error) {
	found, err := s.storage.TickerStore().FindTickers(ctx, models.TickerFilter{
		Date:    date,
		DateMin: date,
		Type:    models.TickerTypeIndex,
		Symbol:  models.SymbolTAIEX,
	}, models.FindOptions{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("find market index record: %w", err)
	}
	if len(found) == 0 || found[0].TradeValue == nil || *found[0].TradeValue <= 0 {
		return 0, fmt.Errorf("%w: no market trade value stored for %s", models.ErrDenominatorMissing, date)
	}
	return *found[0].TradeValue, nil
}

// UpdateMarketChips ingests every market-level positioning report for
// the date and merges the results onto the TAIEX index record: credit
// aggregates, institutional net buy/sell, futures and options net OI,
// large-trader concentration, retail position, P/C ratio, and the
// USD/TWD rate. Each chip kind stands alone: a failed fetch never
// discards the sibling reports, which are persisted before the
// collected failures are returned.
func (s *Service) UpdateMarketChips(ctx context.Context, date string) ([]*models.Ticker, error) {
	fetches := []struct {
		name  string
		fetch func(context.Context, string) (*models.Ticker, error)
	}{
		{"market insti net buy/sell", s.twse.FetchMarketInstiNetBuySell},
		{"market margin transactions", s.twse.FetchMarketMarginTransactions},
		{"futures insti net OI", s.taifex.FetchFuturesInstiNetOi},
		{"options insti net OI", s.taifex.FetchOptionsInstiNetOi},
		{"large trader net OI", s.taifex.FetchLargeTraderFuturesNetOi},
		{"retail position", s.taifex.FetchRetailPosition},
		{"p/c ratio", s.taifex.FetchPcRatio},
		{"usd/twd", s.taifex.FetchUsdTwd},
	}

	results := make([]*models.Ticker, len(fetches))
	fetchErrs := make([]error, len(fetches))
	var wg sync.WaitGroup
	for i, f := range fetches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker, err := f.fetch(ctx, date)
			if err != nil {
				fetchErrs[i] = fmt.Errorf("fetch %s: %w", f.name, err)
				return
			}
			results[i] = ticker
		}()
	}
	wg.Wait()

	var tickers []*models.Ticker
	for _, ticker := range results {
		if ticker != nil {
			tickers = append(tickers, ticker)
		}
	}
	if err := s.upsertAll(ctx, tickers); err != nil {
		return nil, err
	}

	if err := errors.Join(fetchErrs...); err != nil {
		s.logger.Warn().Err(err).Str("date", date).Int("reports", len(tickers)).Msg("market chips partially updated")
		return tickers, err
	}
	if len(tickers) == 0 {
		s.logger.Info().Str("date", date).Msg("no market chips for date")
		return nil, nil
	}
	s.logger.Info().Str("date", date).Int("reports", len(tickers)).Msg("market chips updated")
	return tickers, nil
}

// UpdateAll runs every update operation for the date. Report types run
// sequentially with an inter-type delay; within a type the two
// exchanges run in parallel. One failed (exchange, report) pair is
// logged and does not abort the rest.
func (s *Service) UpdateAll(ctx context.Context, date string) error {
	runID := uuid.NewString()
	log := &common.Logger{Logger: s.logger.With().Str("run_id", runID).Str("date", date).Logger()}

	log.Info().Msg("full update cycle started")

	exchanges := []models.Exchange{models.ExchangeTWSE, models.ExchangeTPEx}

	perExchange := func(name string, update func(context.Context, string, models.Exchange) error) {
		g, gctx := errgroup.WithContext(ctx)
		for _, exchange := range exchanges {
			g.Go(func() error {
				if err := update(gctx, date, exchange); err != nil {
					log.Error().Err(err).Str("exchange", string(exchange)).Str("report", name).Msg("update failed")
				}
				return nil
			})
		}
		g.Wait()
	}

	// Market trades first: the sector-weight denominator comes from them
	perExchange("market trades", func(ctx context.Context, date string, ex models.Exchange) error {
		_, err := s.UpdateMarketTrades(ctx, date, ex)
		return err
	})
	s.pause(ctx)
	perExchange("sector trades", func(ctx context.Context, date string, ex models.Exchange) error {
		_, err := s.UpdateSectorTrades(ctx, date, ex)
		return err
	})
	s.pause(ctx)
	perExchange("index quotes", func(ctx context.Context, date string, ex models.Exchange) error {
		_, err := s.UpdateIndexQuotes(ctx, date, ex)
		return err
	})
	s.pause(ctx)
	perExchange("equity quotes", func(ctx context.Context, date string, ex models.Exchange) error {
		_, err := s.UpdateEquityQuotes(ctx, date, ex)
		return err
	})
	s.pause(ctx)
	perExchange("equity chips", func(ctx context.Context, date string, ex models.Exchange) error {
		_, err := s.UpdateEquityChips(ctx, date, ex)
		return err
	})
	s.pause(ctx)
	perExchange("equity margins", func(ctx context.Context, date string, ex models.Exchange) error {
		_, err := s.UpdateEquityMargins(ctx, date, ex)
		return err
	})
	s.pause(ctx)
	perExchange("equity shares", func(ctx context.Context, date string, ex models.Exchange) error {
		_, err := s.UpdateEquityShares(ctx, date, ex)
		return err
	})
	s.pause(ctx)

	if _, err := s.UpdateMarketChips(ctx, date); err != nil {
		log.Error().Err(err).Str("report", "market chips").Msg("update failed")
	}

	log.Info().Msg("full update cycle finished")
	return ctx.Err()
}

// pause waits the configured inter-report delay, or returns early on
// cancellation.
func (s *Service) pause(ctx context.Context) {
	if s.fetchDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.fetchDelay):
	}
}

// Ensure Service implements TickerService
var _ interfaces.TickerService = (*Service)(nil)
