package models

// MarketInfo is one day of the market rollup: the stored TAIEX index
// record plus day-over-day deltas against its chronological
// predecessor.
type MarketInfo struct {
	Ticker

	UsdtwdChange                 *float64 `json:"usdtwdChange,omitempty"`
	QfiiTxNetOiChange            *float64 `json:"qfiiTxNetOiChange,omitempty"`
	QfiiTxoCallsNetOiChange      *float64 `json:"qfiiTxoCallsNetOiChange,omitempty"`
	QfiiTxoPutsNetOiChange       *float64 `json:"qfiiTxoPutsNetOiChange,omitempty"`
	Top10TxFrontMonthNetOiChange *float64 `json:"top10TxFrontMonthNetOiChange,omitempty"`
	Top10TxBackMonthsNetOiChange *float64 `json:"top10TxBackMonthsNetOiChange,omitempty"`
	RetailMtxNetOiChange         *float64 `json:"retailMtxNetOiChange,omitempty"`
}

// SectorInfo is one sector's entry in the sector rollup for the latest
// trading date: quote fields, change vs the prior date, and trade-value
// weights over the 5-date window.
type SectorInfo struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	ClosePrice    *float64 `json:"closePrice,omitempty"`
	TradeValue    *float64 `json:"tradeValue,omitempty"`
	Change        float64  `json:"change"`
	ChangePercent float64  `json:"changePercent"`
	Weight        float64  `json:"weight"`
	WeightPrev    float64  `json:"weightPrev"`
	WeightChange  float64  `json:"weightChange"`
	WeightAverage float64  `json:"weightAverage"`
}

// TickersByDate groups tickers under their trading date, most recent
// date first in DateOrder.
type TickersByDate struct {
	Dates   []string             `json:"dates"`
	Tickers map[string][]*Ticker `json:"tickers"`
}
