package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/interfaces"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

// Exchange reports publish on Taipei local time; cron specs are
// interpreted in that zone regardless of where tickerd runs.
const exchangeTimezone = "Asia/Taipei"

// jobTimeout bounds one scheduled refresh cycle.
const jobTimeout = 30 * time.Minute

// scheduler runs the daily report-refresh jobs on cron specs aligned
// with the exchanges' publication windows.
type scheduler struct {
	cron    *cron.Cron
	service interfaces.TickerService
	logger  *common.Logger
}

func newScheduler(config common.SchedulerConfig, service interfaces.TickerService, logger *common.Logger) (*scheduler, error) {
	location, err := time.LoadLocation(exchangeTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", exchangeTimezone, err)
	}

	s := &scheduler{
		cron:    cron.New(cron.WithLocation(location)),
		service: service,
		logger:  logger,
	}

	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context, date string)
	}{
		{"market_quotes", config.IndexQuotesSpec, s.refreshMarketQuotes},
		{"equity_reports", config.EquityQuotesSpec, s.refreshEquityReports},
		{"market_chips", config.MarketChipsSpec, s.refreshMarketChips},
	}
	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() { s.runJob(job.name, location, job.run) }); err != nil {
			return nil, fmt.Errorf("invalid cron spec %q for %s: %w", job.spec, job.name, err)
		}
		logger.Info().Str("job", job.name).Str("spec", job.spec).Msg("Scheduled refresh job")
	}

	return s, nil
}

func (s *scheduler) start() {
	s.cron.Start()
}

// stop halts the cron loop and waits for a running job to finish.
func (s *scheduler) stop() {
	<-s.cron.Stop().Done()
}

func (s *scheduler) runJob(name string, location *time.Location, run func(ctx context.Context, date string)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	date := time.Now().In(location).Format(common.DateLayout)
	start := time.Now()
	s.logger.Info().Str("job", name).Str("date", date).Msg("Refresh job started")

	run(ctx, date)

	s.logger.Info().Str("job", name).Str("date", date).Dur("elapsed", time.Since(start)).Msg("Refresh job finished")
}

// refreshMarketQuotes ingests the after-close market and index reports:
// market trades first so the sector weights have their denominator,
// then sector trades and index quotes.
func (s *scheduler) refreshMarketQuotes(ctx context.Context, date string) {
	for _, exchange := range []models.Exchange{models.ExchangeTWSE, models.ExchangeTPEx} {
		if _, err := s.service.UpdateMarketTrades(ctx, date, exchange); err != nil {
			s.logger.Error().Err(err).Str("exchange", string(exchange)).Msg("market trades refresh failed")
		}
		if _, err := s.service.UpdateSectorTrades(ctx, date, exchange); err != nil {
			s.logger.Error().Err(err).Str("exchange", string(exchange)).Msg("sector trades refresh failed")
		}
		if _, err := s.service.UpdateIndexQuotes(ctx, date, exchange); err != nil {
			s.logger.Error().Err(err).Str("exchange", string(exchange)).Msg("index quotes refresh failed")
		}
	}
}

// refreshEquityReports ingests the per-equity reports published later in
// the evening.
func (s *scheduler) refreshEquityReports(ctx context.Context, date string) {
	for _, exchange := range []models.Exchange{models.ExchangeTWSE, models.ExchangeTPEx} {
		if _, err := s.service.UpdateEquityQuotes(ctx, date, exchange); err != nil {
			s.logger.Error().Err(err).Str("exchange", string(exchange)).Msg("equity quotes refresh failed")
		}
		if _, err := s.service.UpdateEquityChips(ctx, date, exchange); err != nil {
			s.logger.Error().Err(err).Str("exchange", string(exchange)).Msg("equity chips refresh failed")
		}
		if _, err := s.service.UpdateEquityMargins(ctx, date, exchange); err != nil {
			s.logger.Error().Err(err).Str("exchange", string(exchange)).Msg("equity margins refresh failed")
		}
		if _, err := s.service.UpdateEquityShares(ctx, date, exchange); err != nil {
			s.logger.Error().Err(err).Str("exchange", string(exchange)).Msg("equity shares refresh failed")
		}
	}
}

// refreshMarketChips ingests the derivatives and institutional-flow
// reports published at night.
func (s *scheduler) refreshMarketChips(ctx context.Context, date string) {
	if _, err := s.service.UpdateMarketChips(ctx, date); err != nil {
		s.logger.Error().Err(err).Msg("market chips refresh failed")
	}
}
