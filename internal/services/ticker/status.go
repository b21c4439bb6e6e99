package ticker

import (
	"context"

	"github.com/ryanchou-dev/tickerd/internal/models"
)

// defaultStatusWindowDays is how many trading dates back the
// classification looks when the request does not say.
const defaultStatusWindowDays = 5

// GetSymbolStatus classifies one equity symbol's institutional-flow
// behavior over the recent trading dates, using the configured ranking
// cutoff for top-list membership.
func (s *Service) GetSymbolStatus(ctx context.Context, req models.SymbolStatusRequest) (*models.SymbolStatus, error) {
	days := req.Days
	if days <= 0 {
		days = defaultStatusWindowDays
	}

	window, err := s.GetTickersByDate(ctx, models.TickersRequest{
		Date: req.Date,
		Type: models.TickerTypeEquity,
		Days: days,
	})
	if err != nil {
		return nil, err
	}
	return SymbolStatus(window, req.Symbol, s.rankingTop), nil
}

// rankingSets holds one date's top-N membership sets per investor
// class and side.
type rankingSets struct {
	qfiiBuys  map[string]bool
	qfiiSells map[string]bool
	siteBuys  map[string]bool
	siteSells map[string]bool
}

func symbolSet(tickers []*models.Ticker) map[string]bool {
	set := make(map[string]bool, len(tickers))
	for _, ticker := range tickers {
		set[ticker.Symbol] = true
	}
	return set
}

// computeRankingSets recomputes the date's top-N lists from the raw
// records. Membership tests must run against fresh lists per date, not
// lists cached from an earlier window.
func computeRankingSets(tickers []*models.Ticker, top int) rankingSets {
	return rankingSets{
		qfiiBuys:  symbolSet(TopNetBuys(tickers, ClassQfii, top)),
		qfiiSells: symbolSet(TopNetSells(tickers, ClassQfii, top)),
		siteBuys:  symbolSet(TopNetBuys(tickers, ClassSite, top)),
		siteSells: symbolSet(TopNetSells(tickers, ClassSite, top)),
	}
}

// SymbolStatus classifies one symbol's institutional-flow behavior over
// a date window ordered most-recent-first: continuous presence across
// the latest two dates, synchronous or contrarian class behavior on the
// latest date, and new entries absent from every earlier date in the
// window.
func SymbolStatus(window *models.TickersByDate, symbol string, top int) *models.SymbolStatus {
	status := &models.SymbolStatus{Symbol: symbol}
	if window == nil || len(window.Dates) == 0 {
		return status
	}

	sets := make([]rankingSets, len(window.Dates))
	for i, date := range window.Dates {
		sets[i] = computeRankingSets(window.Tickers[date], top)
	}

	latest := sets[0]

	// absentBefore reports whether the symbol is missing from the
	// chosen list on every date except the latest.
	absentBefore := func(pick func(rankingSets) map[string]bool) bool {
		for _, s := range sets[1:] {
			if pick(s)[symbol] {
				return false
			}
		}
		return true
	}

	if latest.qfiiBuys[symbol] {
		status.QfiiNewBuying = absentBefore(func(s rankingSets) map[string]bool { return s.qfiiBuys })
	}
	if latest.qfiiSells[symbol] {
		status.QfiiNewSelling = absentBefore(func(s rankingSets) map[string]bool { return s.qfiiSells })
	}
	if latest.siteBuys[symbol] {
		status.SiteNewBuying = absentBefore(func(s rankingSets) map[string]bool { return s.siteBuys })
	}
	if latest.siteSells[symbol] {
		status.SiteNewSelling = absentBefore(func(s rankingSets) map[string]bool { return s.siteSells })
	}

	if len(sets) > 1 {
		prev := sets[1]
		status.QfiiContinuousBuying = latest.qfiiBuys[symbol] && prev.qfiiBuys[symbol]
		status.QfiiContinuousSelling = latest.qfiiSells[symbol] && prev.qfiiSells[symbol]
		status.SiteContinuousBuying = latest.siteBuys[symbol] && prev.siteBuys[symbol]
		status.SiteContinuousSelling = latest.siteSells[symbol] && prev.siteSells[symbol]
	}

	status.SynchronousBuying = latest.qfiiBuys[symbol] && latest.siteBuys[symbol]
	status.SynchronousSelling = latest.qfiiSells[symbol] && latest.siteSells[symbol]
	status.ContrarianTrading = (latest.qfiiBuys[symbol] && latest.siteSells[symbol]) ||
		(latest.qfiiSells[symbol] && latest.siteBuys[symbol])

	return status
}
