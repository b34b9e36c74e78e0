package calculator

import (
	"math"
	"testing"
	"time"

	"BistSentinel/internal/model"
)

func barsFromCloses(closes []float64) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	got, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Errorf("expected NaN warm-up, got %v", got[:2])
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !approx(got[i+2], w) {
			t.Errorf("SMA[%d]: expected %.2f, got %.4f", i+2, w, got[i+2])
		}
	}
	if _, err := SMA([]float64{1, 2}, 3); err == nil {
		t.Error("expected error for short input")
	}
	if _, err := SMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestEMA_SeededWithSMA(t *testing.T) {
	got, err := EMA([]float64{2, 4, 6, 8}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got[2], 4) {
		t.Errorf("expected seed 4, got %.4f", got[2])
	}
	// k = 0.5 → 8*0.5 + 4*0.5
	if !approx(got[3], 6) {
		t.Errorf("expected 6, got %.4f", got[3])
	}
}

func TestEMA_SkipsLeadingNaN(t *testing.T) {
	nan := math.NaN()
	got, err := EMA([]float64{nan, nan, 1, 1, 1, 1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(got[2]) || !approx(got[3], 1) || !approx(got[5], 1) {
		t.Errorf("unexpected EMA over NaN prefix: %v", got)
	}
}

func TestCalculateRSI_Extremes(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	flat := make([]float64, 30)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 100 - float64(i)
		flat[i] = 100
	}

	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"all gains", up, 100},
		{"all losses", down, 0},
		{"flat", flat, 50},
	}
	for _, tt := range tests {
		rsi, err := CalculateRSI(barsFromCloses(tt.closes), 14)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if !math.IsNaN(rsi[13]) {
			t.Errorf("%s: expected NaN before index 14", tt.name)
		}
		if !approx(rsi[29], tt.want) {
			t.Errorf("%s: expected %.1f, got %.4f", tt.name, tt.want, rsi[29])
		}
	}
}

func TestCalculateRSI_Bounded(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5)
	}
	rsi, err := CalculateRSI(barsFromCloses(closes), 14)
	if err != nil {
		t.Fatal(err)
	}
	for i := 14; i < len(rsi); i++ {
		if rsi[i] < 0 || rsi[i] > 100 {
			t.Fatalf("RSI[%d] out of range: %.4f", i, rsi[i])
		}
	}
}

func TestCalculateMACD_ConstantSeries(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 50
	}
	m, err := CalculateMACD(closes, 12, 26, 9)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(m.Line[24]) {
		t.Error("expected NaN before slow EMA seed")
	}
	if !approx(m.Line[25], 0) {
		t.Errorf("expected zero MACD on flat series, got %.4f", m.Line[25])
	}
	if !math.IsNaN(m.Signal[32]) || !approx(m.Signal[33], 0) {
		t.Errorf("signal should start at index 33, got %v / %v", m.Signal[32], m.Signal[33])
	}
	if _, err := CalculateMACD(closes, 26, 12, 9); err == nil {
		t.Error("expected error when fast >= slow")
	}
}

func TestCalculateATR_ConstantRange(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	atr, err := CalculateATR(barsFromCloses(closes), 14)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(atr[12]) {
		t.Error("expected NaN before first ATR")
	}
	for i := 13; i < len(atr); i++ {
		if !approx(atr[i], 2) {
			t.Fatalf("ATR[%d]: expected 2, got %.4f", i, atr[i])
		}
	}
}

func TestCalculateADX_TrendingSeries(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + 2*float64(i)
	}
	dmi, err := CalculateADX(barsFromCloses(closes), 14)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(dmi.ADX[26]) {
		t.Error("expected NaN ADX before index 27")
	}
	last := len(closes) - 1
	if dmi.ADX[last] <= 25 {
		t.Errorf("expected strong trend ADX, got %.2f", dmi.ADX[last])
	}
	if dmi.PlusDI[last] <= dmi.MinusDI[last] {
		t.Errorf("expected +DI > -DI in uptrend, got %.2f / %.2f", dmi.PlusDI[last], dmi.MinusDI[last])
	}
	if _, err := CalculateADX(barsFromCloses(closes[:20]), 14); err == nil {
		t.Error("expected error for short history")
	}
}

func TestCalculateBollinger(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	bb, err := CalculateBollinger(closes, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	// population std of 1..5 is sqrt(2)
	sd := math.Sqrt(2)
	if !approx(bb.Middle[4], 3) || !approx(bb.Upper[4], 3+2*sd) || !approx(bb.Lower[4], 3-2*sd) {
		t.Errorf("unexpected bands: %.4f %.4f %.4f", bb.Lower[4], bb.Middle[4], bb.Upper[4])
	}
	if !math.IsNaN(bb.Upper[3]) {
		t.Error("expected NaN before full window")
	}
}

func TestCalculateStochastic(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	st, err := CalculateStochastic(barsFromCloses(closes), 14, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	// K valid from 13+2, D from 13+2+2
	if !math.IsNaN(st.K[14]) || math.IsNaN(st.K[15]) {
		t.Errorf("unexpected K warm-up: %v %v", st.K[14], st.K[15])
	}
	if !math.IsNaN(st.D[16]) || math.IsNaN(st.D[17]) {
		t.Errorf("unexpected D warm-up: %v %v", st.D[16], st.D[17])
	}
	last := len(closes) - 1
	if st.K[last] < 80 || st.K[last] > 100 {
		t.Errorf("expected high %%K in steady uptrend, got %.2f", st.K[last])
	}
}

func TestCalculateOBV(t *testing.T) {
	bars := barsFromCloses([]float64{10, 11, 11, 9, 12})
	for i := range bars {
		bars[i].Volume = float64(100 * (i + 1))
	}
	obv, err := CalculateOBV(bars)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{100, 300, 300, -100, 400}
	for i, w := range want {
		if !approx(obv[i], w) {
			t.Errorf("OBV[%d]: expected %.0f, got %.0f", i, w, obv[i])
		}
	}
}

func TestCandles(t *testing.T) {
	bars := []model.OHLCV{
		{Open: 10, High: 10.5, Low: 8.5, Close: 9},    // bearish
		{Open: 8.8, High: 10.8, Low: 8.7, Close: 10.6}, // engulfs
		{Open: 10, High: 10.05, Low: 7, Close: 9.9},    // hammer
	}
	eng := BullishEngulfing(bars)
	if eng[0] || !eng[1] || eng[2] {
		t.Errorf("unexpected engulfing flags: %v", eng)
	}
	ham := Hammer(bars)
	if ham[0] || ham[1] || !ham[2] {
		t.Errorf("unexpected hammer flags: %v", ham)
	}
}

func TestRangeHighLow(t *testing.T) {
	bars := barsFromCloses([]float64{5, 20, 10, 12, 11})
	high, low, err := RangeHighLow(bars, 3)
	if err != nil {
		t.Fatal(err)
	}
	if high != 13 || low != 9 {
		t.Errorf("expected 13/9, got %.0f/%.0f", high, low)
	}
	if _, _, err := RangeHighLow(nil, 3); err == nil {
		t.Error("expected error for empty bars")
	}
	if pos, _ := RangePosition(15, 20, 10); !approx(pos, 0.5) {
		t.Errorf("expected 0.5, got %.2f", pos)
	}
	if got := PercentChange(200, 210); !approx(got, 5) {
		t.Errorf("expected 5%%, got %.2f", got)
	}
}

func TestBuildFrame_ShortHistoryOmitsColumns(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	f := BuildFrame(barsFromCloses(closes), DefaultParams())
	if f.Len() != 60 {
		t.Fatalf("expected 60 bars, got %d", f.Len())
	}
	if f.SMA200 != nil {
		t.Error("expected SMA200 omitted for 60 bars")
	}
	if f.SMA50 == nil || f.RSI == nil || f.MACD == nil || f.ADX == nil {
		t.Error("expected core columns present")
	}
	for name, col := range map[string][]float64{"rsi": f.RSI, "atr": f.ATR, "bb": f.BBUpper} {
		if len(col) != 60 {
			t.Errorf("%s: expected length 60, got %d", name, len(col))
		}
	}
}

func TestBuildFrame_Deterministic(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + 15*math.Sin(float64(i)/9) + float64(i)/10
	}
	bars := barsFromCloses(closes)
	a := BuildFrame(bars, DefaultParams())
	b := BuildFrame(bars, DefaultParams())
	cols := [][2][]float64{
		{a.RSI, b.RSI}, {a.MACD, b.MACD}, {a.SMA200, b.SMA200},
		{a.ADX, b.ADX}, {a.StochD, b.StochD}, {a.OBVSMA, b.OBVSMA},
	}
	for c, pair := range cols {
		for i := range pair[0] {
			if math.Float64bits(pair[0][i]) != math.Float64bits(pair[1][i]) {
				t.Fatalf("column %d differs at %d", c, i)
			}
		}
	}
}

func TestWilderSeedAndSmoothing(t *testing.T) {
	got := wilder([]float64{0, 2, 4, 6, 10}, 1, 3)
	for i := 0; i < 3; i++ {
		if !math.IsNaN(got[i]) {
			t.Errorf("index %d should be warm-up NaN, got %.4f", i, got[i])
		}
	}
	if got[3] != 4 {
		t.Errorf("seed: expected mean 4, got %.4f", got[3])
	}
	if want := (4*2 + 10) / 3.0; math.Abs(got[4]-want) > 1e-12 {
		t.Errorf("smoothed: expected %.4f, got %.4f", want, got[4])
	}
}
