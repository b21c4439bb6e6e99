package models

// twseSectorSymbols maps TWSE sector-report display names to index
// symbols. The trailing entries are alternate spellings the exchange
// has used across report revisions.
var twseSectorSymbols = map[string]string{
	"水泥類指數":      "IX0010",
	"食品類指數":      "IX0011",
	"塑膠類指數":      "IX0012",
	"紡織纖維類指數":    "IX0016",
	"電機機械類指數":    "IX0017",
	"電器電纜類指數":    "IX0018",
	"化學生技醫療類指數":  "IX0019",
	"化學類指數":      "IX0020",
	"生技醫療類指數":    "IX0021",
	"玻璃陶瓷類指數":    "IX0022",
	"造紙類指數":      "IX0023",
	"鋼鐵類指數":      "IX0024",
	"橡膠類指數":      "IX0025",
	"汽車類指數":      "IX0026",
	"電子類指數":      "IX0027",
	"半導體類指數":     "IX0028",
	"電腦及週邊設備類指數": "IX0029",
	"光電類指數":      "IX0030",
	"通信網路類指數":    "IX0031",
	"電子零組件類指數":   "IX0032",
	"電子通路類指數":    "IX0033",
	"資訊服務類指數":    "IX0034",
	"其他電子類指數":    "IX0035",
	"建材營造類指數":    "IX0036",
	"航運業類指數":     "IX0037",
	"觀光事業類指數":    "IX0038",
	"金融保險類指數":    "IX0039",
	"貿易百貨類指數":    "IX0040",
	"油電燃氣類指數":    "IX0041",
	"其他類指數":      "IX0042",
	"電子工業類指數":    "IX0027",
	"航運類指數":      "IX0037",
	"觀光類指數":      "IX0038",
}

// tpexSectorSymbols maps TPEx sector-report display names to index
// symbols. Names without a published sector index are absent on
// purpose; rows carrying them are dropped.
var tpexSectorSymbols = map[string]string{
	"光電業":      "IX0055",
	"其他":       "IX0100",
	"其他電子業":    "IX0099",
	"化學工業":     "IX0051",
	"半導體業":     "IX0053",
	"建材營造":     "IX0048",
	"文化創意業":    "IX0075",
	"生技醫療":     "IX0052",
	"紡織纖維":     "IX0044",
	"航運業":      "IX0049",
	"觀光事業":     "IX0050",
	"資訊服務業":    "IX0059",
	"通信網路業":    "IX0056",
	"鋼鐵工業":     "IX0046",
	"電子通路業":    "IX0058",
	"電子零組件業":   "IX0057",
	"電機機械":     "IX0045",
	"電腦及週邊設備業": "IX0054",
	"電子工業":     "IX0047",
}

// SymbolFromSectorName resolves a sector display name to its index
// symbol for the given exchange. The second return is false for names
// without a published sector index; callers drop those rows rather
// than persist a record with a null key component.
func SymbolFromSectorName(name string, exchange Exchange) (string, bool) {
	var symbol string
	switch exchange {
	case ExchangeTWSE:
		symbol = twseSectorSymbols[name]
	case ExchangeTPEx:
		symbol = tpexSectorSymbols[name]
	}
	return symbol, symbol != ""
}

// SectorNameFromSymbol returns the short display name for a sector
// index symbol.
func SectorNameFromSymbol(symbol string, exchange Exchange) string {
	switch exchange {
	case ExchangeTWSE:
		return twseSectorNames[symbol]
	case ExchangeTPEx:
		return tpexSectorNames[symbol]
	}
	return ""
}

var twseSectorNames = map[string]string{
	"IX0010": "水泥",
	"IX0011": "食品",
	"IX0012": "塑膠",
	"IX0016": "紡織纖維",
	"IX0017": "電機機械",
	"IX0018": "電器電纜",
	"IX0019": "化學生技醫療",
	"IX0020": "化工",
	"IX0021": "生技醫療",
	"IX0022": "玻璃陶瓷",
	"IX0023": "造紙",
	"IX0024": "鋼鐵",
	"IX0025": "橡膠",
	"IX0026": "汽車",
	"IX0027": "電子",
	"IX0028": "半導體",
	"IX0029": "電腦及週邊設備",
	"IX0030": "光電",
	"IX0031": "通信網路",
	"IX0032": "電子零組件",
	"IX0033": "電子通路",
	"IX0034": "資訊服務",
	"IX0035": "其他電子",
	"IX0036": "建材營造",
	"IX0037": "航運",
	"IX0038": "觀光",
	"IX0039": "金融保險",
	"IX0040": "貿易百貨",
	"IX0041": "油電燃氣",
	"IX0042": "其他",
}

var tpexSectorNames = map[string]string{
	"IX0044": "紡織纖維",
	"IX0045": "電機機械",
	"IX0046": "鋼鐵",
	"IX0047": "電子",
	"IX0048": "建材營造",
	"IX0049": "航運",
	"IX0050": "觀光事業",
	"IX0051": "化工",
	"IX0052": "生技醫療",
	"IX0053": "半導體",
	"IX0054": "電腦及週邊設備",
	"IX0055": "光電業",
	"IX0056": "通信網路",
	"IX0057": "電子零組件",
	"IX0058": "電子通路",
	"IX0059": "資訊服務",
	"IX0075": "文化創意",
	"IX0099": "其他電子",
	"IX0100": "其他",
}

// SectorExclusions lists sector symbols excluded from weight and
// rollup views per exchange. TWSE excludes the composite chemical-
// biotech index (IX0019) and the broad electronics index (IX0027),
// both of which double-count their sub-sectors; TPEx excludes the
// synthesized electronics composite (IX0047).
var SectorExclusions = map[Exchange][]string{
	ExchangeTWSE: {"IX0019", "IX0027"},
	ExchangeTPEx: {"IX0047"},
}

// TpexElectronicsComponents are the sub-sector symbols summed into the
// synthesized TPEx electronics composite IX0047.
var TpexElectronicsComponents = []string{
	"IX0053", "IX0054", "IX0055", "IX0056", "IX0057", "IX0058", "IX0059", "IX0099",
}
