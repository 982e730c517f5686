package strategy

import (
	"math"

	"binance-momentum-bot-go/internal/position"
)

// DustThreshold is the balance value in quote currency below which a holding
// is treated as effectively zero. A balance worth less than one USDT neither
// blocks a buy nor qualifies for an exit check.
const DustThreshold = 1.0

// ShouldTakeProfit reports whether the held position has reached the profit
// target. Only meaningful when a purchase price is recorded.
func ShouldTakeProfit(purchasePrice, currentPrice, profitTargetPct float64) bool {
	return position.ProfitPercentage(purchasePrice, true, currentPrice) >= profitTargetPct
}

// ShouldTrailingStop reports whether the trailing-stop exit fires. It is a
// confirmation layered on top of the profit target, not an independent
// stop-loss: it requires the price to have reached the target AND the
// trailing-adjusted price to still sit above cost. It never fires to cut a
// loss below cost.
func ShouldTrailingStop(purchasePrice, currentPrice, profitTargetPct, trailingStopPct float64) bool {
	targetPrice := purchasePrice * (1 + profitTargetPct/100)
	trailingPrice := currentPrice * (1 - trailingStopPct/100)
	return currentPrice >= targetPrice && trailingPrice > purchasePrice
}

// ShouldBuy reports whether a new position should be opened. An undefined
// (NaN) RSI never buys: the NaN comparison is false by IEEE semantics, but we
// check explicitly so the intent is visible.
func ShouldBuy(rsi float64, rsiThreshold int, balanceValue float64) bool {
	if math.IsNaN(rsi) {
		return false
	}
	return rsi < float64(rsiThreshold) && balanceValue < DustThreshold
}
