package surrealdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

func taiexQuote(date string, closePrice float64) *models.Ticker {
	return &models.Ticker{
		Date:       date,
		Type:       models.TickerTypeIndex,
		Exchange:   models.ExchangeTWSE,
		Market:     models.MarketTSE,
		Symbol:     models.SymbolTAIEX,
		Name:       "發行量加權股價指數",
		ClosePrice: common.Float64Ptr(closePrice),
	}
}

func TestUpsertTickerMergesReports(t *testing.T) {
	store := NewTickerStore(testDB(t), testLogger())
	ctx := context.Background()

	quote := taiexQuote("2023-01-30", 15493.82)
	quote.Change = common.Float64Ptr(560.89)
	require.NoError(t, store.UpsertTicker(ctx, quote))

	// A later report for the same key contributes its own fields
	chips := &models.Ticker{
		Date:        "2023-01-30",
		Type:        models.TickerTypeIndex,
		Exchange:    models.ExchangeTWSE,
		Market:      models.MarketTSE,
		Symbol:      models.SymbolTAIEX,
		QfiiTxNetOi: common.Float64Ptr(8000),
	}
	require.NoError(t, store.UpsertTicker(ctx, chips))

	found, err := store.FindTickers(ctx, models.TickerFilter{
		Date:   "2023-01-30",
		Symbol: models.SymbolTAIEX,
	}, models.FindOptions{})
	require.NoError(t, err)
	require.Len(t, found, 1)

	merged := found[0]
	assert.Equal(t, 15493.82, *merged.ClosePrice)
	assert.Equal(t, 560.89, *merged.Change)
	assert.Equal(t, 8000.0, *merged.QfiiTxNetOi)
	assert.Equal(t, "發行量加權股價指數", merged.Name)
}

func TestUpsertTickerRejectsIncompleteKey(t *testing.T) {
	store := NewTickerStore(testDB(t), testLogger())

	err := store.UpsertTicker(context.Background(), &models.Ticker{
		Date: "2023-01-30",
		Type: models.TickerTypeIndex,
	})
	assert.ErrorIs(t, err, models.ErrMalformedField)
}

func TestFindTickersDateBoundAndSort(t *testing.T) {
	store := NewTickerStore(testDB(t), testLogger())
	ctx := context.Background()

	for _, seed := range []struct {
		date  string
		close float64
	}{
		{"2023-01-17", 14932.93},
		{"2023-01-30", 15493.82},
		{"2023-01-31", 15265.44},
	} {
		require.NoError(t, store.UpsertTicker(ctx, taiexQuote(seed.date, seed.close)))
	}

	found, err := store.FindTickers(ctx, models.TickerFilter{
		Date:   "2023-01-30",
		Type:   models.TickerTypeIndex,
		Symbol: models.SymbolTAIEX,
	}, models.FindOptions{SortByDateDesc: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, "2023-01-30", found[0].Date)
	assert.Equal(t, "2023-01-17", found[1].Date)
}

func TestFindTickersFiltersByExchange(t *testing.T) {
	store := NewTickerStore(testDB(t), testLogger())
	ctx := context.Background()

	require.NoError(t, store.UpsertTicker(ctx, taiexQuote("2023-01-30", 15493.82)))
	require.NoError(t, store.UpsertTicker(ctx, &models.Ticker{
		Date:     "2023-01-30",
		Type:     models.TickerTypeIndex,
		Exchange: models.ExchangeTPEx,
		Market:   models.MarketOTC,
		Symbol:   models.SymbolTPExIndex,
	}))

	found, err := store.FindTickers(ctx, models.TickerFilter{
		Date:     "2023-01-30",
		Exchange: models.ExchangeTPEx,
	}, models.FindOptions{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, models.SymbolTPExIndex, found[0].Symbol)
}

func TestListDates(t *testing.T) {
	store := NewTickerStore(testDB(t), testLogger())
	ctx := context.Background()

	for _, date := range []string{"2023-01-17", "2023-01-30", "2023-01-31"} {
		require.NoError(t, store.UpsertTicker(ctx, taiexQuote(date, 15000)))
		// A second symbol on the same date must not duplicate the date
		require.NoError(t, store.UpsertTicker(ctx, &models.Ticker{
			Date:     date,
			Type:     models.TickerTypeEquity,
			Exchange: models.ExchangeTWSE,
			Market:   models.MarketTSE,
			Symbol:   "2330",
		}))
	}

	dates, err := store.ListDates(ctx, models.TickerFilter{Date: "2023-01-31"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-01-31", "2023-01-30"}, dates)
}
