package calculator

import (
	"BistSentinel/internal/model"
)

// Params configures the indicator battery.
type Params struct {
	RSIPeriod    int
	MACDFast     int
	MACDSlow     int
	MACDSignal   int
	ATRPeriod    int
	ADXPeriod    int
	BBPeriod     int
	BBStdDev     float64
	StochK       int
	StochD       int
	StochSmooth  int
	VolumePeriod int
	Candles      bool
}

// DefaultParams returns the standard periods (RSI 14, MACD 12/26/9, BB 20/2, Stoch 14/3/3).
func DefaultParams() Params {
	return Params{
		RSIPeriod:    14,
		MACDFast:     12,
		MACDSlow:     26,
		MACDSignal:   9,
		ATRPeriod:    14,
		ADXPeriod:    14,
		BBPeriod:     20,
		BBStdDev:     2.0,
		StochK:       14,
		StochD:       3,
		StochSmooth:  3,
		VolumePeriod: 20,
		Candles:      true,
	}
}

// BuildFrame runs every indicator over bars. Indicators that cannot be computed
// from the available history are left nil rather than failing the whole frame.
// The result depends only on bars and p.
func BuildFrame(bars []model.OHLCV, p Params) *model.IndicatorFrame {
	f := &model.IndicatorFrame{Bars: bars}
	if len(bars) == 0 {
		return f
	}
	closes := extractCloses(bars)

	f.RSI, _ = CalculateRSI(bars, p.RSIPeriod)

	if m, err := CalculateMACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal); err == nil {
		f.MACD, f.MACDSignal, f.MACDHist = m.Line, m.Signal, m.Hist
	}

	f.SMA20, _ = SMA(closes, 20)
	f.SMA50, _ = SMA(closes, 50)
	f.SMA200, _ = SMA(closes, 200)
	f.EMA20, _ = EMA(closes, 20)
	f.EMA50, _ = EMA(closes, 50)

	f.ATR, _ = CalculateATR(bars, p.ATRPeriod)

	if dmi, err := CalculateADX(bars, p.ADXPeriod); err == nil {
		f.ADX, f.PlusDI, f.MinusDI = dmi.ADX, dmi.PlusDI, dmi.MinusDI
	}

	if bb, err := CalculateBollinger(closes, p.BBPeriod, p.BBStdDev); err == nil {
		f.BBUpper, f.BBMiddle, f.BBLower = bb.Upper, bb.Middle, bb.Lower
	}

	if st, err := CalculateStochastic(bars, p.StochK, p.StochD, p.StochSmooth); err == nil {
		f.StochK, f.StochD = st.K, st.D
	}

	if obv, err := CalculateOBV(bars); err == nil {
		f.OBV = obv
		f.OBVSMA, _ = SMA(obv, p.VolumePeriod)
	}
	f.VolumeSMA, _ = SMA(extractVolumes(bars), p.VolumePeriod)

	if p.Candles {
		f.BullishEngulfing = BullishEngulfing(bars)
		f.Hammer = Hammer(bars)
	}
	return f
}
