package taifex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanchou-dev/tickerd/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL), WithRateLimit(1000))
}

func writeCSV(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "text/csv")
	_, err := w.Write([]byte(body))
	assert.NoError(t, err)
}

func TestFetchFuturesInstiNetOi(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enl/eng3/futContractsDateDown", r.URL.Path)
		assert.Equal(t, "2023/01/30", r.PostFormValue("queryStartDate"))
		assert.Equal(t, "2023/01/30", r.PostFormValue("queryEndDate"))
		assert.Equal(t, "TXF", r.PostFormValue("commodityId"))
		writeCSV(t, w, "Date,Item,Open Interest (Net),Contract Value of Open Interest (Net)(Thousands)\n"+
			"2023/01/30,Dealers,-2000,-110000\n"+
			"2023/01/30,Investment Trust,1500,82000\n"+
			"2023/01/30,Foreign Institutional Investors,8000,450000\n")
	})

	ticker, err := client.FetchFuturesInstiNetOi(context.Background(), "2023-01-30")
	require.NoError(t, err)
	require.NotNil(t, ticker)

	assert.Equal(t, models.SymbolTAIEX, ticker.Symbol)
	assert.Equal(t, models.ExchangeTWSE, ticker.Exchange)
	assert.Equal(t, 8000.0, *ticker.QfiiTxNetOi)
	assert.Equal(t, 1500.0, *ticker.SiteTxNetOi)
	assert.Equal(t, -2000.0, *ticker.DealersTxNetOi)
}

func TestFetchFuturesInstiNetOiNoData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeCSV(t, w, "")
	})

	ticker, err := client.FetchFuturesInstiNetOi(context.Background(), "2023-01-29")
	require.NoError(t, err)
	assert.Nil(t, ticker)
}

func TestFetchFuturesInstiNetOiMissingColumn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeCSV(t, w, "Date,Item\n2023/01/30,Dealers\n")
	})

	_, err := client.FetchFuturesInstiNetOi(context.Background(), "2023-01-30")
	assert.ErrorIs(t, err, models.ErrMalformedField)
}

func TestFetchOptionsInstiNetOi(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enl/eng3/callsAndPutsDateDown", r.URL.Path)
		assert.Equal(t, "TXO", r.PostFormValue("commodityId"))
		writeCSV(t, w, "Date,Item,Call/Put,Open Interest (Net),Contract Value of Open Interest (Net)(Thousands)\n"+
			"2023/01/30,Dealers,Call,-500,-9000\n"+
			"2023/01/30,Investment Trust,Call,200,3500\n"+
			"2023/01/30,Foreign Institutional Investors,Call,4000,72000\n"+
			"2023/01/30,Dealers,Put,300,5200\n"+
			"2023/01/30,Investment Trust,Put,-100,-1800\n"+
			"2023/01/30,Foreign Institutional Investors,Put,-2500,-46000\n")
	})

	ticker, err := client.FetchOptionsInstiNetOi(context.Background(), "2023-01-30")
	require.NoError(t, err)
	require.NotNil(t, ticker)

	assert.Equal(t, 4000.0, *ticker.QfiiTxoCallsNetOi)
	assert.Equal(t, 72000.0, *ticker.QfiiTxoCallsNetOiValue)
	assert.Equal(t, 200.0, *ticker.SiteTxoCallsNetOi)
	assert.Equal(t, -500.0, *ticker.DealersTxoCallsNetOi)
	assert.Equal(t, -2500.0, *ticker.QfiiTxoPutsNetOi)
	assert.Equal(t, -46000.0, *ticker.QfiiTxoPutsNetOiValue)
	assert.Equal(t, -100.0, *ticker.SiteTxoPutsNetOi)
	assert.Equal(t, 300.0, *ticker.DealersTxoPutsNetOi)
	assert.Equal(t, 5200.0, *ticker.DealersTxoPutsNetOiValue)
}

func TestFetchLargeTraderFuturesNetOi(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enl/eng3/largeTraderFutDown", r.URL.Path)
		writeCSV(t, w, "Date,Contract,Settlement Month,Type of Traders,Top 5_Buy,Top 5_Sell,Top 10_Buy,Top 10_Sell,OI of Market\n"+
			"2023/01/30,TE,202302,1,100,50,200,120,5000\n"+ // other contract, ignored
			"2023/01/30,TX,202302,0,20000,15000,30000,24000,90000\n"+
			"2023/01/30,TX,202302,1,18000,14000,26000,21000,90000\n"+
			"2023/01/30,TX,202303,1,2000,1500,3000,2600,12000\n"+
			"2023/01/30,TX,999999,0,26000,20000,38000,30000,110000\n"+
			"2023/01/30,TX,999999,1,23000,18000,33000,26500,110000\n")
	})

	ticker, err := client.FetchLargeTraderFuturesNetOi(context.Background(), "2023-01-30")
	require.NoError(t, err)
	require.NotNil(t, ticker)

	// front month 202302: 26000 - 21000; all months: 33000 - 26500
	assert.Equal(t, 5000.0, *ticker.Top10TxFrontMonthNetOi)
	assert.Equal(t, 1500.0, *ticker.Top10TxBackMonthsNetOi)
}

func TestFetchLargeTraderFuturesNetOiMissingRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeCSV(t, w, "Date,Contract,Settlement Month,Type of Traders,Top 5_Buy,Top 5_Sell,Top 10_Buy,Top 10_Sell,OI of Market\n"+
			"2023/01/30,TX,202302,0,20000,15000,30000,24000,90000\n")
	})

	_, err := client.FetchLargeTraderFuturesNetOi(context.Background(), "2023-01-30")
	assert.ErrorIs(t, err, models.ErrMalformedField)
}

func TestFetchRetailPosition(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/enl/eng3/futContractsDateDown":
			assert.Equal(t, "MXF", r.PostFormValue("commodityId"))
			writeCSV(t, w, "Date,Item,Open Interest (Net)\n"+
				"2023/01/30,Dealers,-3000\n"+
				"2023/01/30,Investment Trust,500\n"+
				"2023/01/30,Foreign Institutional Investors,4000\n")
		case "/enl/eng3/futDataDown":
			assert.Equal(t, "MTX", r.PostFormValue("commodity_id"))
			assert.Equal(t, "1", r.PostFormValue("down_type"))
			writeCSV(t, w, "date,contract,open_interest,Trading Session,Volume(executions among spread order and single order only)\n"+
				"2023/01/30,MTX,30000,Regular,\n"+
				"2023/01/30,MTX,15000,Regular,\n"+
				"2023/01/30,MTX,800,Regular,800\n"+ // spread subtotal, skipped
				"2023/01/30,MTX,5000,After-hours,\n")
		default:
			assert.Fail(t, "unexpected path", r.URL.Path)
		}
	})

	ticker, err := client.FetchRetailPosition(context.Background(), "2023-01-30")
	require.NoError(t, err)
	require.NotNil(t, ticker)

	// institutional net 1500 inverted, over 45000 market OI
	assert.Equal(t, -1500.0, *ticker.RetailMtxNetOi)
	assert.Equal(t, -0.0333, *ticker.RetailMtxLongShortRatio)
}

func TestFetchPcRatio(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enl/eng3/pcRatioDown", r.URL.Path)
		// leading BOM on the header is stripped
		writeCSV(t, w, "\ufeffDate,Put Volume,Call Volume,Put/Call Volume Ratio%,Put OI,Call OI,Put/Call OI Ratio%\n"+
			"2023/01/30,500000,600000,83.33,350000,400000,87.50\n")
	})

	ticker, err := client.FetchPcRatio(context.Background(), "2023-01-30")
	require.NoError(t, err)
	require.NotNil(t, ticker)
	assert.Equal(t, 87.5, *ticker.PcRatio)
}

func TestFetchUsdTwd(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enl/eng3/dailyFXRateDown", r.URL.Path)
		writeCSV(t, w, "Date,USD/NTD,CNY/NTD,EUR/USD\n"+
			"2023/01/30,30.137,4.4451,1.0851\n")
	})

	ticker, err := client.FetchUsdTwd(context.Background(), "2023-01-30")
	require.NoError(t, err)
	require.NotNil(t, ticker)
	assert.Equal(t, 30.137, *ticker.Usdtwd)
}
