package models

// SymbolStatus classifies one symbol's presence in the institutional
// net buy/sell rankings across a multi-date window.
type SymbolStatus struct {
	Symbol string `json:"symbol"`

	// Present in the same ranking on both the latest and previous date
	QfiiContinuousBuying  bool `json:"qfiiContinuousBuying"`
	QfiiContinuousSelling bool `json:"qfiiContinuousSelling"`
	SiteContinuousBuying  bool `json:"siteContinuousBuying"`
	SiteContinuousSelling bool `json:"siteContinuousSelling"`

	// Absent from the class's ranking on every date except the latest
	QfiiNewBuying  bool `json:"qfiiNewBuying"`
	QfiiNewSelling bool `json:"qfiiNewSelling"`
	SiteNewBuying  bool `json:"siteNewBuying"`
	SiteNewSelling bool `json:"siteNewSelling"`

	// Both classes ranked the symbol the same way on the latest date
	SynchronousBuying  bool `json:"synchronousBuying"`
	SynchronousSelling bool `json:"synchronousSelling"`

	// One class buying while the other sells on the latest date
	ContrarianTrading bool `json:"contrarianTrading"`
}
