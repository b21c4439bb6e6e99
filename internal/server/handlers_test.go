package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/interfaces"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

// stubService cans the derived-view responses; update operations are
// not reachable over the REST API and return nil.
type stubService struct {
	marketInfo   func(req models.MarketInfoRequest) ([]*models.MarketInfo, error)
	sectorInfo   func(req models.SectorInfoRequest) ([]*models.SectorInfo, error)
	tickers      func(req models.TickersRequest) (*models.TickersByDate, error)
	tradeDates   func(req models.TradeDatesRequest) ([]string, error)
	symbolStatus func(req models.SymbolStatusRequest) (*models.SymbolStatus, error)
}

func (s *stubService) UpdateIndexQuotes(context.Context, string, models.Exchange) ([]*models.Ticker, error) {
	return nil, nil
}
func (s *stubService) UpdateEquityQuotes(context.Context, string, models.Exchange) ([]*models.Ticker, error) {
	return nil, nil
}
func (s *stubService) UpdateEquityChips(context.Context, string, models.Exchange) ([]*models.Ticker, error) {
	return nil, nil
}
func (s *stubService) UpdateEquityMargins(context.Context, string, models.Exchange) ([]*models.Ticker, error) {
	return nil, nil
}
func (s *stubService) UpdateEquityShares(context.Context, string, models.Exchange) ([]*models.Ticker, error) {
	return nil, nil
}
func (s *stubService) UpdateMarketTrades(context.Context, string, models.Exchange) (*models.Ticker, error) {
	return nil, nil
}
func (s *stubService) UpdateSectorTrades(context.Context, string, models.Exchange) ([]*models.Ticker, error) {
	return nil, nil
}
func (s *stubService) UpdateMarketChips(context.Context, string) ([]*models.Ticker, error) {
	return nil, nil
}
func (s *stubService) UpdateAll(context.Context, string) error { return nil }

func (s *stubService) GetMarketInfo(_ context.Context, req models.MarketInfoRequest) ([]*models.MarketInfo, error) {
	if s.marketInfo == nil {
		return nil, nil
	}
	return s.marketInfo(req)
}
func (s *stubService) GetSectorInfo(_ context.Context, req models.SectorInfoRequest) ([]*models.SectorInfo, error) {
	if s.sectorInfo == nil {
		return nil, nil
	}
	return s.sectorInfo(req)
}
func (s *stubService) GetTickersByDate(_ context.Context, req models.TickersRequest) (*models.TickersByDate, error) {
	if s.tickers == nil {
		return nil, nil
	}
	return s.tickers(req)
}
func (s *stubService) GetLastTradeDates(_ context.Context, req models.TradeDatesRequest) ([]string, error) {
	if s.tradeDates == nil {
		return nil, nil
	}
	return s.tradeDates(req)
}
func (s *stubService) GetSymbolStatus(_ context.Context, req models.SymbolStatusRequest) (*models.SymbolStatus, error) {
	if s.symbolStatus == nil {
		return &models.SymbolStatus{Symbol: req.Symbol}, nil
	}
	return s.symbolStatus(req)
}

var _ interfaces.TickerService = (*stubService)(nil)

func newTestServer(service interfaces.TickerService) *Server {
	return NewServer(common.NewDefaultConfig(), service, common.NewSilentLogger())
}

func doRequest(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doRequest(t, srv, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestVersion(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doRequest(t, srv, http.MethodGet, "/api/version")
	assert.Equal(t, http.StatusOK, rec.Code)

	var info common.VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.NotEmpty(t, info.Version)
}

func TestMarketInfo(t *testing.T) {
	var seen models.MarketInfoRequest
	service := &stubService{
		marketInfo: func(req models.MarketInfoRequest) ([]*models.MarketInfo, error) {
			seen = req
			info := &models.MarketInfo{}
			info.Date = "2023-01-30"
			info.Symbol = models.SymbolTAIEX
			return []*models.MarketInfo{info}, nil
		},
	}
	srv := newTestServer(service)

	rec := doRequest(t, srv, http.MethodGet, "/api/market-info?date=2023-01-30&days=5")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.MarketInfoRequest{Date: "2023-01-30", Days: 5}, seen)

	var infos []*models.MarketInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, models.SymbolTAIEX, infos[0].Symbol)
}

func TestMarketInfoValidation(t *testing.T) {
	srv := newTestServer(&stubService{})

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"missing date", "/api/market-info", "date is required"},
		{"bad date", "/api/market-info?date=01-30-2023", "date must be formatted yyyy-MM-dd"},
		{"bad days", "/api/market-info?date=2023-01-30&days=abc", "days must be an integer"},
		{"days out of range", "/api/market-info?date=2023-01-30&days=9999", "days is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Error)
		})
	}
}

func TestMarketInfoEmptyWindow(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doRequest(t, srv, http.MethodGet, "/api/market-info?date=2023-01-30")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMarketInfoServiceError(t *testing.T) {
	service := &stubService{
		marketInfo: func(models.MarketInfoRequest) ([]*models.MarketInfo, error) {
			return nil, errors.New("storage unavailable")
		},
	}
	srv := newTestServer(service)

	rec := doRequest(t, srv, http.MethodGet, "/api/market-info?date=2023-01-30")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSectorInfo(t *testing.T) {
	var seen models.SectorInfoRequest
	service := &stubService{
		sectorInfo: func(req models.SectorInfoRequest) ([]*models.SectorInfo, error) {
			seen = req
			return []*models.SectorInfo{{Symbol: "IX0028", Name: "半導體", Weight: 32.5}}, nil
		},
	}
	srv := newTestServer(service)

	rec := doRequest(t, srv, http.MethodGet, "/api/sector-info?date=2023-01-30&exchange=TWSE")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.SectorInfoRequest{Date: "2023-01-30", Exchange: models.ExchangeTWSE}, seen)

	var infos []*models.SectorInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, 32.5, infos[0].Weight)
}

func TestSectorInfoRejectsUnknownExchange(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doRequest(t, srv, http.MethodGet, "/api/sector-info?date=2023-01-30&exchange=NYSE")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "exchange must be one of: TWSE TPEx", resp.Error)
}

func TestTickers(t *testing.T) {
	service := &stubService{
		tickers: func(req models.TickersRequest) (*models.TickersByDate, error) {
			return &models.TickersByDate{
				Dates: []string{"2023-01-30"},
				Tickers: map[string][]*models.Ticker{
					"2023-01-30": {{Date: "2023-01-30", Symbol: "2330"}},
				},
			}, nil
		},
	}
	srv := newTestServer(service)

	rec := doRequest(t, srv, http.MethodGet, "/api/tickers?date=2023-01-30&type=EQUITY&exchange=TWSE")
	assert.Equal(t, http.StatusOK, rec.Code)

	var grouped models.TickersByDate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grouped))
	assert.Equal(t, []string{"2023-01-30"}, grouped.Dates)
}

func TestTickersRequiresType(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doRequest(t, srv, http.MethodGet, "/api/tickers?date=2023-01-30")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "type is required", resp.Error)
}

func TestTradeDates(t *testing.T) {
	service := &stubService{
		tradeDates: func(req models.TradeDatesRequest) ([]string, error) {
			return []string{"2023-01-31", "2023-01-30"}, nil
		},
	}
	srv := newTestServer(service)

	rec := doRequest(t, srv, http.MethodGet, "/api/trade-dates?date=2023-01-31&days=2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dates":["2023-01-31","2023-01-30"]}`, rec.Body.String())
}

func TestSymbolStatus(t *testing.T) {
	var seen models.SymbolStatusRequest
	service := &stubService{
		symbolStatus: func(req models.SymbolStatusRequest) (*models.SymbolStatus, error) {
			seen = req
			return &models.SymbolStatus{Symbol: req.Symbol, QfiiContinuousBuying: true}, nil
		},
	}
	srv := newTestServer(service)

	rec := doRequest(t, srv, http.MethodGet, "/api/symbol-status?date=2023-01-31&symbol=2330&days=5")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.SymbolStatusRequest{Date: "2023-01-31", Symbol: "2330", Days: 5}, seen)

	var status models.SymbolStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.QfiiContinuousBuying)
}

func TestSymbolStatusRequiresSymbol(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doRequest(t, srv, http.MethodGet, "/api/symbol-status?date=2023-01-31")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "symbol is required", resp.Error)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doRequest(t, srv, http.MethodPost, "/api/market-info?date=2023-01-30")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc123")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc123", rec.Header().Get("X-Request-ID"))
}
