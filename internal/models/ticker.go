// Package models defines data structures for tickerd
package models

import (
	"fmt"
	"strings"
)

// TickerType classifies a ticker record
type TickerType string

const (
	TickerTypeEquity TickerType = "EQUITY"
	TickerTypeIndex  TickerType = "INDEX"
)

// Exchange identifies the data source exchange
type Exchange string

const (
	ExchangeTWSE   Exchange = "TWSE"
	ExchangeTPEx   Exchange = "TPEx"
	ExchangeTAIFEX Exchange = "TAIFEX"
)

// Market identifies the trading market a record belongs to
type Market string

const (
	MarketTSE Market = "TSE"
	MarketOTC Market = "OTC"
)

// MarketForExchange maps an equity/index exchange to its market
func MarketForExchange(exchange Exchange) Market {
	if exchange == ExchangeTPEx {
		return MarketOTC
	}
	return MarketTSE
}

// Primary market index symbols
const (
	SymbolTAIEX     = "IX0001" // 發行量加權股價指數
	SymbolTPExIndex = "IX0043" // 櫃買指數
)

// MarketIndexSymbol returns the primary market index symbol for an exchange
func MarketIndexSymbol(exchange Exchange) string {
	if exchange == ExchangeTPEx {
		return SymbolTPExIndex
	}
	return SymbolTAIEX
}

// Ticker is the canonical end-of-day record. One record exists per
// (date, type, exchange, market, symbol); reports that cover the same
// security on the same day merge additively into it. Optional numeric
// fields are pointers so a merge can tell absent from zero.
type Ticker struct {
	Date     string     `json:"date"`
	Type     TickerType `json:"type"`
	Exchange Exchange   `json:"exchange"`
	Market   Market     `json:"market"`
	Symbol   string     `json:"symbol"`
	Name     string     `json:"name,omitempty"`

	// Quote fields
	OpenPrice     *float64 `json:"openPrice,omitempty"`
	HighPrice     *float64 `json:"highPrice,omitempty"`
	LowPrice      *float64 `json:"lowPrice,omitempty"`
	ClosePrice    *float64 `json:"closePrice,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
	TradeVolume   *float64 `json:"tradeVolume,omitempty"`
	TradeValue    *float64 `json:"tradeValue,omitempty"`
	Transaction   *float64 `json:"transaction,omitempty"`

	// Sector trade-value weight (percent of the market index trade value)
	TradeWeight        *float64 `json:"tradeWeight,omitempty"`
	TradeWeightPrev    *float64 `json:"tradeWeightPrev,omitempty"`
	TradeWeightChange  *float64 `json:"tradeWeightChange,omitempty"`
	TradeWeightAverage *float64 `json:"tradeWeightAverage,omitempty"`

	// Institutional net buy/sell (lots for equities, value for market records)
	QfiiNetBuySell    *float64 `json:"qfiiNetBuySell,omitempty"`
	SiteNetBuySell    *float64 `json:"siteNetBuySell,omitempty"`
	DealersNetBuySell *float64 `json:"dealersNetBuySell,omitempty"`

	// Margin transactions
	MarginPurchase       *float64 `json:"marginPurchase,omitempty"`
	MarginPurchaseChange *float64 `json:"marginPurchaseChange,omitempty"`
	ShortSale            *float64 `json:"shortSale,omitempty"`
	ShortSaleChange      *float64 `json:"shortSaleChange,omitempty"`

	// Derivatives positioning, merged onto the TAIEX index record
	QfiiTxNetOi               *float64 `json:"qfiiTxNetOi,omitempty"`
	SiteTxNetOi               *float64 `json:"siteTxNetOi,omitempty"`
	DealersTxNetOi            *float64 `json:"dealersTxNetOi,omitempty"`
	QfiiTxoCallsNetOi         *float64 `json:"qfiiTxoCallsNetOi,omitempty"`
	QfiiTxoCallsNetOiValue    *float64 `json:"qfiiTxoCallsNetOiValue,omitempty"`
	SiteTxoCallsNetOi         *float64 `json:"siteTxoCallsNetOi,omitempty"`
	SiteTxoCallsNetOiValue    *float64 `json:"siteTxoCallsNetOiValue,omitempty"`
	DealersTxoCallsNetOi      *float64 `json:"dealersTxoCallsNetOi,omitempty"`
	DealersTxoCallsNetOiValue *float64 `json:"dealersTxoCallsNetOiValue,omitempty"`
	QfiiTxoPutsNetOi          *float64 `json:"qfiiTxoPutsNetOi,omitempty"`
	QfiiTxoPutsNetOiValue     *float64 `json:"qfiiTxoPutsNetOiValue,omitempty"`
	SiteTxoPutsNetOi          *float64 `json:"siteTxoPutsNetOi,omitempty"`
	SiteTxoPutsNetOiValue     *float64 `json:"siteTxoPutsNetOiValue,omitempty"`
	DealersTxoPutsNetOi       *float64 `json:"dealersTxoPutsNetOi,omitempty"`
	DealersTxoPutsNetOiValue  *float64 `json:"dealersTxoPutsNetOiValue,omitempty"`
	Top10TxFrontMonthNetOi    *float64 `json:"top10TxFrontMonthNetOi,omitempty"`
	Top10TxBackMonthsNetOi    *float64 `json:"top10TxBackMonthsNetOi,omitempty"`
	RetailMtxNetOi            *float64 `json:"retailMtxNetOi,omitempty"`
	RetailMtxLongShortRatio   *float64 `json:"retailMtxLongShortRatio,omitempty"`
	PcRatio                   *float64 `json:"pcRatio,omitempty"`
	Usdtwd                    *float64 `json:"usdtwd,omitempty"`

	// Shareholding
	IssuedShares *float64 `json:"issuedShares,omitempty"`
	QfiiHoldings *float64 `json:"qfiiHoldings,omitempty"`
}

// Key returns the composite natural key for the record,
// date|type|exchange|market|symbol.
func (t *Ticker) Key() string {
	return strings.Join([]string{
		t.Date, string(t.Type), string(t.Exchange), string(t.Market), t.Symbol,
	}, "|")
}

// Validate checks that all identity fields are present
func (t *Ticker) Validate() error {
	switch {
	case t.Date == "":
		return fmt.Errorf("%w: missing date", ErrMalformedField)
	case t.Type == "":
		return fmt.Errorf("%w: missing type", ErrMalformedField)
	case t.Exchange == "":
		return fmt.Errorf("%w: missing exchange", ErrMalformedField)
	case t.Market == "":
		return fmt.Errorf("%w: missing market", ErrMalformedField)
	case t.Symbol == "":
		return fmt.Errorf("%w: missing symbol", ErrMalformedField)
	}
	return nil
}
