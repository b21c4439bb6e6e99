package mops

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	"github.com/ryanchou-dev/tickerd/internal/models"
)

// writeBig5 serves an HTML document re-encoded to Big5, the way the
// upstream serves it.
func writeBig5(t *testing.T, w http.ResponseWriter, html string) {
	t.Helper()
	var buf bytes.Buffer
	writer := transform.NewWriter(&buf, traditionalchinese.Big5.NewEncoder())
	_, err := writer.Write([]byte(html))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())
	w.Header().Set("Content-Type", "text/html")
	_, err = w.Write(buf.Bytes())
	assert.NoError(t, err)
}

func TestFetchTpexEquityShares(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/server-java/t13sa150_otc", r.URL.Path)
		assert.Equal(t, "2023", r.PostFormValue("years"))
		assert.Equal(t, "01", r.PostFormValue("months"))
		assert.Equal(t, "30", r.PostFormValue("days"))
		assert.Equal(t, "2", r.PostFormValue("step"))
		writeBig5(t, w, `<html><body><table>
			<tr><td>股票代號</td><td>名稱</td><td>發行股數</td><td>尚可投資股數</td><td>僑外資持有股數</td></tr>
			<tr><td>5483</td><td>中美晶</td><td>586,867,168</td><td>400,000,000</td><td>186,867,168</td></tr>
			<tr><td></td><td>備註</td><td></td><td></td><td></td></tr>
			<tr><td>8069</td><td>元太</td><td>1,141,327,248</td><td>700,000,000</td><td>441,327,248</td></tr>
		</table></body></html>`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(WithBaseURL(server.URL), WithRateLimit(1000))
	tickers, err := client.FetchTpexEquityShares(context.Background(), "2023-01-30")
	require.NoError(t, err)
	require.Len(t, tickers, 2)

	first := tickers[0]
	assert.Equal(t, "5483", first.Symbol)
	assert.Equal(t, models.TickerTypeEquity, first.Type)
	assert.Equal(t, models.ExchangeTPEx, first.Exchange)
	assert.Equal(t, models.MarketOTC, first.Market)
	assert.Equal(t, 586867168.0, *first.IssuedShares)
	assert.Equal(t, 186867168.0, *first.QfiiHoldings)

	assert.Equal(t, "8069", tickers[1].Symbol)
}

func TestFetchTpexEquitySharesEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBig5(t, w, `<html><body>查無資料</body></html>`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(WithBaseURL(server.URL), WithRateLimit(1000))
	tickers, err := client.FetchTpexEquityShares(context.Background(), "2023-01-29")
	require.NoError(t, err)
	assert.Nil(t, tickers)
}
