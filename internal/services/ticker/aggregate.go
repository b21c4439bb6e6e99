package ticker

import (
	"context"
	"fmt"
	"sort"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

const (
	defaultMarketInfoDays = 30
	defaultTradeDatesDays = 30
	sectorWindowDates     = 5
)

// delta is a day-over-day difference, defined only when both days
// carry the field.
func delta(cur, prev *float64) *float64 {
	if cur == nil || prev == nil {
		return nil
	}
	return common.Float64Ptr(*cur - *prev)
}

// GetMarketInfo returns the market rollup: the most recent `days` TAIEX
// records at or before the date, each annotated with day-over-day
// deltas against its chronological predecessor. The oldest fetched
// record only serves as a predecessor and is not returned.
func (s *Service) GetMarketInfo(ctx context.Context, req models.MarketInfoRequest) ([]*models.MarketInfo, error) {
	days := req.Days
	if days <= 0 {
		days = defaultMarketInfoDays
	}

	rows, err := s.storage.TickerStore().FindTickers(ctx, models.TickerFilter{
		Date:   req.Date,
		Symbol: models.SymbolTAIEX,
	}, models.FindOptions{SortByDateDesc: true, Limit: days + 1})
	if err != nil {
		return nil, fmt.Errorf("find market index records: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	infos := make([]*models.MarketInfo, 0, len(rows)-1)
	for i := 0; i < len(rows)-1; i++ {
		row, prev := rows[i], rows[i+1]

		info := &models.MarketInfo{Ticker: *row}
		if info.ChangePercent == nil && row.Change != nil && row.ClosePrice != nil {
			reference := *row.ClosePrice - *row.Change
			if reference != 0 {
				info.ChangePercent = common.Float64Ptr(common.Round2(*row.Change / reference * 100))
			} else {
				info.ChangePercent = common.Float64Ptr(0)
			}
		}
		info.UsdtwdChange = delta(row.Usdtwd, prev.Usdtwd)
		info.QfiiTxNetOiChange = delta(row.QfiiTxNetOi, prev.QfiiTxNetOi)
		info.QfiiTxoCallsNetOiChange = delta(row.QfiiTxoCallsNetOi, prev.QfiiTxoCallsNetOi)
		info.QfiiTxoPutsNetOiChange = delta(row.QfiiTxoPutsNetOi, prev.QfiiTxoPutsNetOi)
		info.Top10TxFrontMonthNetOiChange = delta(row.Top10TxFrontMonthNetOi, prev.Top10TxFrontMonthNetOi)
		info.Top10TxBackMonthsNetOiChange = delta(row.Top10TxBackMonthsNetOi, prev.Top10TxBackMonthsNetOi)
		info.RetailMtxNetOiChange = delta(row.RetailMtxNetOi, prev.RetailMtxNetOi)

		infos = append(infos, info)
	}
	return infos, nil
}

// GetSectorInfo returns the sector rollup for the latest trading date
// at or before the requested date: per-sector price change against the
// prior date and trade-volume weights over the last five trading dates,
// sorted by changePercent descending. The market index itself is
// excluded, as are the exchange's composite sectors from the weight
// denominator.
func (s *Service) GetSectorInfo(ctx context.Context, req models.SectorInfoRequest) ([]*models.SectorInfo, error) {
	store := s.storage.TickerStore()
	marketIndex := models.MarketIndexSymbol(req.Exchange)

	filter := models.TickerFilter{
		Date:          req.Date,
		Type:          models.TickerTypeIndex,
		Exchange:      req.Exchange,
		ExcludeSymbol: marketIndex,
	}

	dates, err := store.ListDates(ctx, filter, sectorWindowDates)
	if err != nil {
		return nil, fmt.Errorf("list sector dates: %w", err)
	}
	if len(dates) < 2 {
		return nil, nil
	}

	filter.Date = dates[0]
	filter.DateMin = dates[len(dates)-1]
	rows, err := store.FindTickers(ctx, filter, models.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("find sector records: %w", err)
	}

	byDate := make(map[string][]*models.Ticker, len(dates))
	for _, row := range rows {
		byDate[row.Date] = append(byDate[row.Date], row)
	}

	weights := sectorWeights(byDate, models.SectorExclusions[req.Exchange])

	prevBySymbol := make(map[string]*models.Ticker, len(byDate[dates[1]]))
	for _, sector := range byDate[dates[1]] {
		prevBySymbol[sector.Symbol] = sector
	}

	var infos []*models.SectorInfo
	for _, sector := range byDate[dates[0]] {
		prev, ok := prevBySymbol[sector.Symbol]
		if !ok {
			continue
		}

		price := common.Deref(sector.ClosePrice)
		prevPrice := common.Deref(prev.ClosePrice)
		change := price - prevPrice
		var changePercent float64
		if prevPrice != 0 {
			changePercent = common.Round2(change / prevPrice * 100)
		}

		var totalWeight float64
		for _, date := range dates {
			totalWeight += weights[date][sector.Symbol]
		}

		infos = append(infos, &models.SectorInfo{
			Symbol:        sector.Symbol,
			Name:          sector.Name,
			ClosePrice:    sector.ClosePrice,
			TradeValue:    sector.TradeValue,
			Change:        change,
			ChangePercent: changePercent,
			Weight:        weights[dates[0]][sector.Symbol],
			WeightPrev:    weights[dates[1]][sector.Symbol],
			WeightChange:  common.Round2(weights[dates[0]][sector.Symbol] - weights[dates[1]][sector.Symbol]),
			WeightAverage: common.Round2(totalWeight / float64(len(dates))),
		})
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].ChangePercent > infos[j].ChangePercent
	})
	return infos, nil
}

// sectorWeights computes each sector's share of the date's total trade
// volume, excluding composite sectors from the denominator so their
// members are not double counted. Distinct from the ingestion-time
// tradeWeight, which divides the sector's trade value by the market
// index trade value.
func sectorWeights(byDate map[string][]*models.Ticker, exclusions []string) map[string]map[string]float64 {
	excluded := make(map[string]bool, len(exclusions))
	for _, symbol := range exclusions {
		excluded[symbol] = true
	}

	weights := make(map[string]map[string]float64, len(byDate))
	for date, sectors := range byDate {
		var totalVolume float64
		for _, sector := range sectors {
			if !excluded[sector.Symbol] {
				totalVolume += common.Deref(sector.TradeVolume)
			}
		}

		weights[date] = make(map[string]float64, len(sectors))
		for _, sector := range sectors {
			if totalVolume != 0 {
				weights[date][sector.Symbol] = common.Round2(common.Deref(sector.TradeVolume) / totalVolume * 100)
			}
		}
	}
	return weights
}

// GetTickersByDate groups records matching the type/exchange filter by
// trading date, returning the most recent `days` distinct dates.
func (s *Service) GetTickersByDate(ctx context.Context, req models.TickersRequest) (*models.TickersByDate, error) {
	store := s.storage.TickerStore()
	days := req.Days
	if days <= 0 {
		days = 1
	}

	filter := models.TickerFilter{
		Date:     req.Date,
		Type:     req.Type,
		Exchange: req.Exchange,
	}

	dates, err := store.ListDates(ctx, filter, days)
	if err != nil {
		return nil, fmt.Errorf("list trade dates: %w", err)
	}
	if len(dates) == 0 {
		return nil, nil
	}

	filter.Date = dates[0]
	filter.DateMin = dates[len(dates)-1]
	rows, err := store.FindTickers(ctx, filter, models.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("find tickers: %w", err)
	}

	grouped := make(map[string][]*models.Ticker, len(dates))
	for _, row := range rows {
		grouped[row.Date] = append(grouped[row.Date], row)
	}

	return &models.TickersByDate{Dates: dates, Tickers: grouped}, nil
}

// GetLastTradeDates returns the most recent distinct trading dates at
// or before the requested date.
func (s *Service) GetLastTradeDates(ctx context.Context, req models.TradeDatesRequest) ([]string, error) {
	days := req.Days
	if days <= 0 {
		days = defaultTradeDatesDays
	}
	dates, err := s.storage.TickerStore().ListDates(ctx, models.TickerFilter{Date: req.Date}, days)
	if err != nil {
		return nil, fmt.Errorf("list trade dates: %w", err)
	}
	return dates, nil
}
