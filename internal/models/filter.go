package models

// TickerFilter scopes store reads. Date is an upper bound (records at
// or before it), DateMin a lower bound; empty optional fields match
// everything. ExcludeSymbol drops one symbol, which the sector rollup
// uses to leave out the market index.
type TickerFilter struct {
	Date          string     `json:"date"`
	DateMin       string     `json:"dateMin,omitempty"`
	Type          TickerType `json:"type,omitempty"`
	Exchange      Exchange   `json:"exchange,omitempty"`
	Market        Market     `json:"market,omitempty"`
	Symbol        string     `json:"symbol,omitempty"`
	ExcludeSymbol string     `json:"excludeSymbol,omitempty"`
}

// FindOptions tunes a store read
type FindOptions struct {
	SortByDateDesc bool
	Limit          int
}

// MarketInfoRequest selects the window for the market info rollup
type MarketInfoRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Days int    `json:"days" validate:"omitempty,min=1,max=365"`
}

// SectorInfoRequest selects the sector rollup window
type SectorInfoRequest struct {
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	Exchange Exchange `json:"exchange" validate:"required,oneof=TWSE TPEx"`
}

// TickersRequest selects tickers grouped by trading date
type TickersRequest struct {
	Date     string     `json:"date" validate:"required,datetime=2006-01-02"`
	Type     TickerType `json:"type" validate:"required,oneof=EQUITY INDEX"`
	Exchange Exchange   `json:"exchange" validate:"omitempty,oneof=TWSE TPEx"`
	Days     int        `json:"days" validate:"omitempty,min=1,max=90"`
}

// SymbolStatusRequest selects the window for one symbol's
// institutional-flow classification
type SymbolStatusRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Symbol string `json:"symbol" validate:"required"`
	Days   int    `json:"days" validate:"omitempty,min=2,max=30"`
}

// TradeDatesRequest selects recent distinct trading dates
type TradeDatesRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Days int    `json:"days" validate:"omitempty,min=1,max=365"`
}
