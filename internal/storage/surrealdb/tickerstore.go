package surrealdb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

// TickerStore persists canonical ticker records. One record exists per
// composite key; report updates merge into it so each provider can
// contribute its fields independently.
type TickerStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTickerStore(db *surrealdb.DB, logger *common.Logger) *TickerStore {
	return &TickerStore{
		db:     db,
		logger: logger,
	}
}

// UpsertTicker merges the record's non-nil fields into the stored
// record, creating it when absent. MERGE keeps fields written by other
// reports for the same security and day.
func (s *TickerStore) UpsertTicker(ctx context.Context, ticker *models.Ticker) error {
	if err := ticker.Validate(); err != nil {
		return err
	}

	sql := "UPSERT $rid MERGE $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("ticker", ticker.Key()),
		"data": ticker,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Ticker](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to upsert ticker after retries: %w", lastErr)
}

// FindTickers returns records at or before filter.Date matching the
// filter's optional fields.
func (s *TickerStore) FindTickers(ctx context.Context, filter models.TickerFilter, opts models.FindOptions) ([]*models.Ticker, error) {
	sql, vars := buildQuery("SELECT * FROM ticker", filter)
	if opts.SortByDateDesc {
		sql += " ORDER BY date DESC"
	}
	if opts.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	results, err := surrealdb.Query[[]models.Ticker](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to find tickers: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Ticker
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

// ListDates returns distinct trading dates matching the filter, most
// recent first, at most limit entries.
func (s *TickerStore) ListDates(ctx context.Context, filter models.TickerFilter, limit int) ([]string, error) {
	sql, vars := buildQuery("SELECT date FROM ticker", filter)
	sql += " GROUP BY date"

	type dateResult struct {
		Date string `json:"date"`
	}

	results, err := surrealdb.Query[[]dateResult](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}

	var dates []string
	if results != nil && len(*results) > 0 {
		for _, res := range (*results)[0].Result {
			dates = append(dates, res.Date)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	return dates, nil
}

func (s *TickerStore) Close() error {
	return nil
}

// buildQuery appends WHERE clauses for the filter's set fields. The
// date bound is inclusive.
func buildQuery(base string, filter models.TickerFilter) (string, map[string]any) {
	var clauses []string
	vars := map[string]any{}

	if filter.Date != "" {
		clauses = append(clauses, "date <= $date")
		vars["date"] = filter.Date
	}
	if filter.DateMin != "" {
		clauses = append(clauses, "date >= $dateMin")
		vars["dateMin"] = filter.DateMin
	}
	if filter.Type != "" {
		clauses = append(clauses, "type = $type")
		vars["type"] = string(filter.Type)
	}
	if filter.Exchange != "" {
		clauses = append(clauses, "exchange = $exchange")
		vars["exchange"] = string(filter.Exchange)
	}
	if filter.Market != "" {
		clauses = append(clauses, "market = $market")
		vars["market"] = string(filter.Market)
	}
	if filter.Symbol != "" {
		clauses = append(clauses, "symbol = $symbol")
		vars["symbol"] = filter.Symbol
	}
	if filter.ExcludeSymbol != "" {
		clauses = append(clauses, "symbol != $excludeSymbol")
		vars["excludeSymbol"] = filter.ExcludeSymbol
	}

	if len(clauses) > 0 {
		base += " WHERE " + strings.Join(clauses, " AND ")
	}
	return base, vars
}
