// Package indicator computes the momentum and volatility signals the decision
// engine consumes. All functions take close prices in ascending time order
// (most recent last) and report the value at the most recent observation only.
// When the series is too short the result is math.NaN(), never an error.
package indicator

import "math"

// Dynamic RSI buy thresholds, selected by where price sits relative to the
// Bollinger Bands.
const (
	ThresholdConservative = 30 // price above the upper band: demand a deeper dip
	ThresholdAggressive   = 24 // price below the lower band: buy a shallower dip
	ThresholdDefault      = 27
)

// RSI returns the Wilder-smoothed relative strength index over the last
// period price changes. At least period+1 prices are required.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return math.NaN()
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := prices[i] - prices[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing over the remainder of the series.
	for i := period + 1; i < len(prices); i++ {
		d := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// BollingerBands returns the upper and lower band at the most recent
// observation: rolling mean ± k times the rolling sample standard deviation
// (ddof=1) over the trailing window. Both values are NaN when fewer than
// window prices are available.
func BollingerBands(prices []float64, window int, k float64) (upper, lower float64) {
	if window <= 1 || len(prices) < window {
		return math.NaN(), math.NaN()
	}

	sum := 0.0
	for i := len(prices) - window; i < len(prices); i++ {
		sum += prices[i]
	}
	mean := sum / float64(window)

	ss := 0.0
	for i := len(prices) - window; i < len(prices); i++ {
		d := prices[i] - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(window-1))

	return mean + k*std, mean - k*std
}

// DynamicRSIThreshold derives the RSI buy threshold from the price position
// relative to the bands. Comparisons are strict: a price exactly on a band
// (and any NaN band) falls through to the default.
func DynamicRSIThreshold(price, upper, lower float64) int {
	switch {
	case price > upper:
		return ThresholdConservative
	case price < lower:
		return ThresholdAggressive
	default:
		return ThresholdDefault
	}
}
