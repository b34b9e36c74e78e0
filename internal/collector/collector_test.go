package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"BistSentinel/internal/model"
)

const chartJSON = `{"chart":{"result":[{"timestamp":[1717459200,1717372800,1717545600],
"indicators":{"quote":[{"open":[11,10,null],"high":[12,11,null],"low":[10,9,null],"close":[11.5,10.5,null],"volume":[2000,1000,null]}]}}],"error":null}}`

func TestYahooFetcher_ParsesAndSorts(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	bars, err := f.FetchBars(context.Background(), "USDTRY", "6mo", "1d")
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/v8/finance/chart/TRY=X" {
		t.Errorf("expected alias mapped to TRY=X, got %s", gotPath)
	}
	if !strings.Contains(gotQuery, "range=6mo") || !strings.Contains(gotQuery, "interval=1d") {
		t.Errorf("unexpected query %s", gotQuery)
	}
	if len(bars) != 2 {
		t.Fatalf("expected null bar skipped, got %d bars", len(bars))
	}
	if bars[0].Close != 10.5 || bars[1].Close != 11.5 {
		t.Errorf("expected chronological order, got %.1f then %.1f", bars[0].Close, bars[1].Close)
	}
}

func TestYahooFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	if _, err := f.FetchBars(context.Background(), "THYAO.IS", "1y", "1d"); err == nil {
		t.Error("expected error on 429")
	}
}

func TestRESTFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("symbol") != "ASELS.IS" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `[{"timestamp":200,"close":2},{"timestamp":100,"close":1}]`)
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "k", "")
	bars, err := f.FetchBars(context.Background(), "ASELS.IS", "1y", "1d")
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 2 || bars[0].Close != 1 {
		t.Errorf("unexpected bars %+v", bars)
	}
}

type flakyFetcher struct {
	calls   int32
	results [][]model.OHLCV
	errs    []error
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchBars(context.Context, string, string, string) ([]model.OHLCV, error) {
	i := int(atomic.AddInt32(&f.calls, 1)) - 1
	return f.results[i], f.errs[i]
}

func TestRetryFetcher(t *testing.T) {
	bar := []model.OHLCV{{Close: 1}}
	tests := []struct {
		name    string
		results [][]model.OHLCV
		errs    []error
		calls   int32
		wantErr bool
	}{
		{"first ok", [][]model.OHLCV{bar, nil}, []error{nil, nil}, 1, false},
		{"empty then ok", [][]model.OHLCV{{}, bar}, []error{nil, nil}, 2, false},
		{"error then ok", [][]model.OHLCV{nil, bar}, []error{errors.New("boom"), nil}, 2, false},
		{"empty twice", [][]model.OHLCV{{}, {}}, []error{nil, nil}, 2, true},
		{"error twice", [][]model.OHLCV{nil, nil}, []error{errors.New("a"), errors.New("b")}, 2, true},
	}
	for _, tt := range tests {
		f := &flakyFetcher{results: tt.results, errs: tt.errs}
		_, err := WithRetry(f, 2, time.Millisecond).FetchBars(context.Background(), "X", "1y", "1d")
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: expected error=%v, got %v", tt.name, tt.wantErr, err)
		}
		if f.calls != tt.calls {
			t.Errorf("%s: expected %d calls, got %d", tt.name, tt.calls, f.calls)
		}
	}
}

func TestRetryFetcher_EmptyIsDataUnavailable(t *testing.T) {
	f := &flakyFetcher{results: [][]model.OHLCV{{}, {}}, errs: []error{nil, nil}}
	_, err := WithRetry(f, 2, 0).FetchBars(context.Background(), "X", "1y", "1d")
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestFetchAll_PartialFailure(t *testing.T) {
	m := &MockFetcher{Count: 5, Errs: map[string]error{"BAD.IS": errors.New("down")}}
	res := FetchAll(context.Background(), m, []string{"A.IS", "B.IS", "BAD.IS"}, "1y", "1d", 2)
	if len(res.Bars) != 2 || len(res.Failed) != 1 {
		t.Fatalf("expected 2 ok / 1 failed, got %d / %d", len(res.Bars), len(res.Failed))
	}
	if len(res.Bars["A.IS"]) != 5 {
		t.Errorf("expected 5 bars, got %d", len(res.Bars["A.IS"]))
	}
}

func twoCloses(prev, last float64) []model.OHLCV {
	return []model.OHLCV{{Close: prev}, {Close: last}}
}

func TestMarketService_Quotes(t *testing.T) {
	m := &MockFetcher{Data: map[string][]model.OHLCV{
		symbolBIST100: twoCloses(10000, 10100),
		symbolUSDTRY:  twoCloses(32, 32),
		symbolEURTRY:  twoCloses(35, 35.35),
		symbolGold:    twoCloses(2300, 2300),
		symbolSilver:  twoCloses(math.NaN(), 30),
	}}
	svc := NewMarketService(m, time.Minute)
	s, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]model.MarketQuote)
	for _, q := range s.Quotes {
		got[q.Label] = q
	}
	if len(got) != 4 {
		t.Fatalf("expected silver omitted, got %+v", s.Quotes)
	}
	if q := got["BIST 100"]; math.Abs(q.ChangePercent-1) > 1e-9 {
		t.Errorf("expected +1%%, got %.4f", q.ChangePercent)
	}
	wantGold := 2300 * 32 / GramsPerTroyOunce
	if q := got["Gram Gold"]; math.Abs(q.Value-wantGold) > 1e-9 {
		t.Errorf("expected gram gold %.4f, got %.4f", wantGold, q.Value)
	}
}

func TestMarketService_StaleFallback(t *testing.T) {
	down := errors.New("down")
	m := &MockFetcher{
		Data: map[string][]model.OHLCV{symbolBIST100: twoCloses(100, 101)},
		Errs: map[string]error{symbolUSDTRY: down, symbolEURTRY: down, symbolGold: down, symbolSilver: down},
	}
	svc := NewMarketService(m, time.Minute)
	clock := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	svc.cache.now = func() time.Time { return clock }

	if _, err := svc.Summary(context.Background()); err != nil {
		t.Fatal(err)
	}
	// within TTL: served from cache without refetch
	if _, err := svc.Summary(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c := m.Calls(symbolBIST100); c != 1 {
		t.Errorf("expected 1 fetch within TTL, got %d", c)
	}

	clock = clock.Add(2 * time.Minute)
	m.Errs[symbolBIST100] = down
	s, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("expected last good value, got %v", err)
	}
	if !s.Stale || len(s.Quotes) != 1 {
		t.Errorf("expected stale cached summary, got %+v", s)
	}
}

func TestMarketService_NoCacheFailure(t *testing.T) {
	m := &MockFetcher{Errs: map[string]error{
		symbolBIST100: errors.New("x"), symbolUSDTRY: errors.New("x"), symbolEURTRY: errors.New("x"),
		symbolGold: errors.New("x"), symbolSilver: errors.New("x"),
	}}
	if _, err := NewMarketService(m, time.Minute).Summary(context.Background()); !errors.Is(err, model.ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestChartWindow(t *testing.T) {
	if p, i, ok := ChartWindow("1w"); !ok || p != "5d" || i != "60m" {
		t.Errorf("unexpected 1w window %s/%s", p, i)
	}
	if _, _, ok := ChartWindow("5y"); ok {
		t.Error("expected unknown range rejected")
	}
}
