package ticker

import (
	"sort"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

// DefaultRankingTop is the ranking cutoff when none is configured.
// It also bounds the lists the symbol-status classification tests
// membership against.
const DefaultRankingTop = 50

// InvestorClass selects the institutional net buy/sell column a
// ranking reads.
type InvestorClass string

const (
	ClassQfii    InvestorClass = "qfii"
	ClassSite    InvestorClass = "site"
	ClassDealers InvestorClass = "dealers"
)

func netBuySell(ticker *models.Ticker, class InvestorClass) float64 {
	switch class {
	case ClassQfii:
		return common.Deref(ticker.QfiiNetBuySell)
	case ClassSite:
		return common.Deref(ticker.SiteNetBuySell)
	case ClassDealers:
		return common.Deref(ticker.DealersNetBuySell)
	}
	return 0
}

// rank filters tickers by keep, stable-sorts by less, and truncates to
// top entries. Ties keep input order; no secondary key applies.
func rank(tickers []*models.Ticker, keep func(*models.Ticker) bool, less func(a, b *models.Ticker) bool, top int) []*models.Ticker {
	if top <= 0 {
		top = DefaultRankingTop
	}

	var ranked []*models.Ticker
	for _, ticker := range tickers {
		if keep(ticker) {
			ranked = append(ranked, ticker)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })

	if len(ranked) > top {
		ranked = ranked[:top]
	}
	return ranked
}

// TopNetBuys returns the class's largest net buyers, descending
func TopNetBuys(tickers []*models.Ticker, class InvestorClass, top int) []*models.Ticker {
	return rank(tickers,
		func(t *models.Ticker) bool { return netBuySell(t, class) > 0 },
		func(a, b *models.Ticker) bool { return netBuySell(a, class) > netBuySell(b, class) },
		top)
}

// TopNetSells returns the class's largest net sellers, most negative
// first.
func TopNetSells(tickers []*models.Ticker, class InvestorClass, top int) []*models.Ticker {
	return rank(tickers,
		func(t *models.Ticker) bool { return netBuySell(t, class) < 0 },
		func(a, b *models.Ticker) bool { return netBuySell(a, class) < netBuySell(b, class) },
		top)
}

// TopGainers returns the largest positive percent movers, descending.
// The mover, most-active, and money-flow rankers serve consumers that
// build display lists from the tickers view; unlike the net buy/sell
// rankers they do not feed symbol status and no endpoint wraps them.
func TopGainers(tickers []*models.Ticker, top int) []*models.Ticker {
	return rank(tickers,
		func(t *models.Ticker) bool { return common.Deref(t.ChangePercent) > 0 },
		func(a, b *models.Ticker) bool { return common.Deref(a.ChangePercent) > common.Deref(b.ChangePercent) },
		top)
}

// TopLosers returns the largest negative percent movers, most negative
// first. Consumer-side, see TopGainers.
func TopLosers(tickers []*models.Ticker, top int) []*models.Ticker {
	return rank(tickers,
		func(t *models.Ticker) bool { return common.Deref(t.ChangePercent) < 0 },
		func(a, b *models.Ticker) bool { return common.Deref(a.ChangePercent) < common.Deref(b.ChangePercent) },
		top)
}

// MostActivesByVolume returns the highest trade volumes, descending.
// Consumer-side, see TopGainers.
func MostActivesByVolume(tickers []*models.Ticker, top int) []*models.Ticker {
	return rank(tickers,
		func(t *models.Ticker) bool { return common.Deref(t.TradeVolume) > 0 },
		func(a, b *models.Ticker) bool { return common.Deref(a.TradeVolume) > common.Deref(b.TradeVolume) },
		top)
}

// MostActivesByValue returns the highest trade values, descending.
// Consumer-side, see TopGainers.
func MostActivesByValue(tickers []*models.Ticker, top int) []*models.Ticker {
	return rank(tickers,
		func(t *models.Ticker) bool { return common.Deref(t.TradeValue) > 0 },
		func(a, b *models.Ticker) bool { return common.Deref(a.TradeValue) > common.Deref(b.TradeValue) },
		top)
}

// FilterByExchange narrows a ranking input to one exchange
func FilterByExchange(tickers []*models.Ticker, exchange models.Exchange) []*models.Ticker {
	var filtered []*models.Ticker
	for _, ticker := range tickers {
		if ticker.Exchange == exchange {
			filtered = append(filtered, ticker)
		}
	}
	return filtered
}

// MoneyFlow orders one date's index records for capital-rotation
// display: the exchange's market index first, then the sectors sorted
// by changePercent descending. Consumer-side, see TopGainers.
func MoneyFlow(tickers []*models.Ticker, exchange models.Exchange) []*models.Ticker {
	marketIndex := models.MarketIndexSymbol(exchange)

	var index *models.Ticker
	var sectors []*models.Ticker
	for _, ticker := range tickers {
		if ticker.Exchange != exchange {
			continue
		}
		if ticker.Symbol == marketIndex {
			index = ticker
			continue
		}
		sectors = append(sectors, ticker)
	}

	sort.SliceStable(sectors, func(i, j int) bool {
		return common.Deref(sectors[i].ChangePercent) > common.Deref(sectors[j].ChangePercent)
	})

	if index == nil {
		return sectors
	}
	return append([]*models.Ticker{index}, sectors...)
}
