package ticker

import (
	"context"
	"reflect"
	"sort"

	"github.com/ryanchou-dev/tickerd/internal/interfaces"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

// memStore is an in-memory TickerStore with the same merge semantics as
// the SurrealDB store: non-nil fields of an update overwrite, absent
// fields keep their stored value.
type memStore struct {
	records map[string]*models.Ticker
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*models.Ticker)}
}

func (s *memStore) UpsertTicker(_ context.Context, ticker *models.Ticker) error {
	if err := ticker.Validate(); err != nil {
		return err
	}
	existing, ok := s.records[ticker.Key()]
	if !ok {
		clone := *ticker
		s.records[ticker.Key()] = &clone
		return nil
	}
	mergeTicker(existing, ticker)
	return nil
}

// mergeTicker copies update's set fields onto dst
func mergeTicker(dst, update *models.Ticker) {
	dstVal := reflect.ValueOf(dst).Elem()
	srcVal := reflect.ValueOf(update).Elem()
	for i := 0; i < srcVal.NumField(); i++ {
		field := srcVal.Field(i)
		switch field.Kind() {
		case reflect.Ptr:
			if !field.IsNil() {
				dstVal.Field(i).Set(field)
			}
		case reflect.String:
			if field.String() != "" {
				dstVal.Field(i).Set(field)
			}
		}
	}
}

func (s *memStore) matches(ticker *models.Ticker, filter models.TickerFilter) bool {
	if filter.Date != "" && ticker.Date > filter.Date {
		return false
	}
	if filter.DateMin != "" && ticker.Date < filter.DateMin {
		return false
	}
	if filter.Type != "" && ticker.Type != filter.Type {
		return false
	}
	if filter.Exchange != "" && ticker.Exchange != filter.Exchange {
		return false
	}
	if filter.Market != "" && ticker.Market != filter.Market {
		return false
	}
	if filter.Symbol != "" && ticker.Symbol != filter.Symbol {
		return false
	}
	if filter.ExcludeSymbol != "" && ticker.Symbol == filter.ExcludeSymbol {
		return false
	}
	return true
}

func (s *memStore) FindTickers(_ context.Context, filter models.TickerFilter, opts models.FindOptions) ([]*models.Ticker, error) {
	var found []*models.Ticker
	for _, ticker := range s.records {
		if s.matches(ticker, filter) {
			found = append(found, ticker)
		}
	}
	// Deterministic base order before the optional date sort
	sort.Slice(found, func(i, j int) bool { return found[i].Key() < found[j].Key() })
	if opts.SortByDateDesc {
		sort.SliceStable(found, func(i, j int) bool { return found[i].Date > found[j].Date })
	}
	if opts.Limit > 0 && len(found) > opts.Limit {
		found = found[:opts.Limit]
	}
	return found, nil
}

func (s *memStore) ListDates(_ context.Context, filter models.TickerFilter, limit int) ([]string, error) {
	seen := make(map[string]bool)
	for _, ticker := range s.records {
		if s.matches(ticker, filter) {
			seen[ticker.Date] = true
		}
	}
	var dates []string
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	return dates, nil
}

func (s *memStore) Close() error { return nil }

// memStorage satisfies StorageManager around a memStore
type memStorage struct {
	store *memStore
}

func newMemStorage() *memStorage {
	return &memStorage{store: newMemStore()}
}

func (m *memStorage) TickerStore() interfaces.TickerStore { return m.store }
func (m *memStorage) Close() error                        { return nil }

// Mock clients return canned records per method; nil funcs mean no data.

type tickersFunc func(ctx context.Context, date string) ([]*models.Ticker, error)
type tickerFunc func(ctx context.Context, date string) (*models.Ticker, error)

func (f tickersFunc) call(ctx context.Context, date string) ([]*models.Ticker, error) {
	if f == nil {
		return nil, nil
	}
	return f(ctx, date)
}

func (f tickerFunc) call(ctx context.Context, date string) (*models.Ticker, error) {
	if f == nil {
		return nil, nil
	}
	return f(ctx, date)
}

type mockTWSE struct {
	indexQuotes        tickersFunc
	equityQuotes       tickersFunc
	equityChips        tickersFunc
	equityMargins      tickersFunc
	equityShares       tickersFunc
	marketTrades       tickerFunc
	instiNetBuySell    tickerFunc
	marginTransactions tickerFunc
	sectorTrades       func(ctx context.Context, date string, taiexTradeValue float64) ([]*models.Ticker, error)
}

func (m *mockTWSE) FetchIndexQuotes(ctx context.Context, date string) ([]*models.Ticker, error) {
	return m.indexQuotes.call(ctx, date)
}
func (m *mockTWSE) FetchEquityQuotes(ctx context.Context, date string) ([]*models.Ticker, error) {
	return m.equityQuotes.call(ctx, date)
}
func (m *mockTWSE) FetchEquityChips(ctx context.Context, date string) ([]*models.Ticker, error) {
	return m.equityChips.call(ctx, date)
}
func (m *mockTWSE) FetchEquityMargins(ctx context.Context, date string) ([]*models.Ticker, error) {
	return m.equityMargins.call(ctx, date)
}
func (m *mockTWSE) FetchEquityShares(ctx context.Context, date string) ([]*models.Ticker, error) {
	return m.equityShares.call(ctx, date)
}
func (m *mockTWSE) FetchMarketTrades(ctx context.Context, date string) (*models.Ticker, error) {
	return m.marketTrades.call(ctx, date)
}
func (m *mockTWSE) FetchMarketInstiNetBuySell(ctx context.Context, date string) (*models.Ticker, error) {
	return m.instiNetBuySell.call(ctx, date)
}
func (m *mockTWSE) FetchMarketMarginTransactions(ctx context.Context, date string) (*models.Ticker, error) {
	return m.marginTransactions.call(ctx, date)
}
func (m *mockTWSE) FetchSectorTrades(ctx context.Context, date string, taiexTradeValue float64) ([]*models.Ticker, error) {
	if m.sectorTrades == nil {
		return nil, nil
	}
	return m.sectorTrades(ctx, date, taiexTradeValue)
}

type mockTPEx struct {
	indexQuotes   tickersFunc
	equityQuotes  tickersFunc
	equityChips   tickersFunc
	equityMargins tickersFunc
	marketTrades  tickerFunc
	sectorTrades  tickersFunc
}

func (m *mockTPEx) FetchIndexQuotes(ctx context.Context, date string) ([]*models.Ticker, error) {
	return m.indexQuotes.call(ctx, date)
}
func (m *mockTPEx) FetchEquityQuotes(ctx context.Context, date string) ([]*models.Ticker, error) {
	return m.equityQuotes.call(ctx, date)
}
func (m *mockTPEx) FetchEquityChips(ctx context.Context, date string) ([]*models.Ticker, error) {
	return m.equityChips.call(ctx, date)
}
func (m *mockTPEx) FetchEquityMargins(ctx context.Context, date string) ([]*models.Ticker, error) {
	return m.equityMargins.call(ctx, date)
}
func (m *mockTPEx) FetchMarketTrades(ctx context.Context, date string) (*models.Ticker, error) {
	return m.marketTrades.call(ctx, date)
}
func (m *mockTPEx) FetchSectorTrades(ctx context.Context, date string) ([]*models.Ticker, error) {
	return m.sectorTrades.call(ctx, date)
}

type mockTAIFEX struct {
	futuresInstiNetOi tickerFunc
	optionsInstiNetOi tickerFunc
	largeTraderNetOi  tickerFunc
	retailPosition    tickerFunc
	pcRatio           tickerFunc
	usdTwd            tickerFunc
}

func (m *mockTAIFEX) FetchFuturesInstiNetOi(ctx context.Context, date string) (*models.Ticker, error) {
	return m.futuresInstiNetOi.call(ctx, date)
}
func (m *mockTAIFEX) FetchOptionsInstiNetOi(ctx context.Context, date string) (*models.Ticker, error) {
	return m.optionsInstiNetOi.call(ctx, date)
}
func (m *mockTAIFEX) FetchLargeTraderFuturesNetOi(ctx context.Context, date string) (*models.Ticker, error) {
	return m.largeTraderNetOi.call(ctx, date)
}
func (m *mockTAIFEX) FetchRetailPosition(ctx context.Context, date string) (*models.Ticker, error) {
	return m.retailPosition.call(ctx, date)
}
func (m *mockTAIFEX) FetchPcRatio(ctx context.Context, date string) (*models.Ticker, error) {
	return m.pcRatio.call(ctx, date)
}
func (m *mockTAIFEX) FetchUsdTwd(ctx context.Context, date string) (*models.Ticker, error) {
	return m.usdTwd.call(ctx, date)
}

type mockMOPS struct {
	equityShares tickersFunc
}

func (m *mockMOPS) FetchTpexEquityShares(ctx context.Context, date string) ([]*models.Ticker, error) {
	return m.equityShares.call(ctx, date)
}

// Compile-time checks
var (
	_ interfaces.TickerStore    = (*memStore)(nil)
	_ interfaces.StorageManager = (*memStorage)(nil)
	_ interfaces.TWSEClient     = (*mockTWSE)(nil)
	_ interfaces.TPExClient     = (*mockTPEx)(nil)
	_ interfaces.TAIFEXClient   = (*mockTAIFEX)(nil)
	_ interfaces.MOPSClient     = (*mockMOPS)(nil)
)
