package strategy

import (
	"math"

	"binance-momentum-bot-go/internal/indicator"
	"binance-momentum-bot-go/internal/models"
	"binance-momentum-bot-go/internal/position"
)

// Bollinger Band parameters. Fixed, matching the signal model the thresholds
// were tuned against.
const (
	bollingerWindow = 20
	bollingerStdDev = 2.0
)

// Engine turns one MarketSnapshot into exactly one Decision per symbol per
// cycle. The per-cycle state is derived fresh from the balance value: a
// holding worth at least DustThreshold is "held" and only exit rules apply;
// anything less is "flat" and only the entry rule applies. Evaluating the
// same snapshot twice without an intervening tracker mutation yields the
// identical decision.
type Engine struct {
	rsiPeriod       int
	profitTargetPct float64
	trailingStopPct float64
	tracker         *position.Tracker
}

// NewEngine creates a decision engine for the configured signal and exit
// parameters.
func NewEngine(cfg *models.Config, tracker *position.Tracker) *Engine {
	return &Engine{
		rsiPeriod:       cfg.RSIPeriod,
		profitTargetPct: cfg.ProfitTargetPct,
		trailingStopPct: cfg.TrailingStopPct,
		tracker:         tracker,
	}
}

// Evaluate produces the decision for one symbol from one snapshot. It reads
// the position tracker but never mutates it; recording and clearing purchase
// prices is the trading loop's responsibility, tied to order execution.
func (e *Engine) Evaluate(snap *models.MarketSnapshot) (*models.Decision, error) {
	symbol := snap.Symbol.Symbol

	purchasePrice, hasPurchase, err := e.tracker.ReadPurchase(symbol)
	if err != nil {
		return nil, models.NewCycleError(models.ErrKindPersistence, symbol, "read purchase price", err)
	}

	upper, lower := indicator.BollingerBands(snap.Closes, bollingerWindow, bollingerStdDev)
	threshold := indicator.DynamicRSIThreshold(snap.Price, upper, lower)
	rsi := indicator.RSI(snap.Closes, e.rsiPeriod)

	d := &models.Decision{
		Action: models.ActionNone,
		Symbol: symbol,
		Price:  snap.Price,
		Signals: models.Signals{
			RSI:          rsi,
			UpperBand:    upper,
			LowerBand:    lower,
			RSIThreshold: threshold,
		},
		PurchasePrice: purchasePrice,
		HasPurchase:   hasPurchase,
		ProfitPct:     position.ProfitPercentage(purchasePrice, hasPurchase, snap.Price),
	}

	balanceValue := snap.FreeBalance * snap.Price

	if balanceValue >= DustThreshold {
		// Held: only exit rules apply. Take-profit is checked before the
		// trailing-stop confirmation; the first rule that fires wins.
		switch {
		case hasPurchase && ShouldTakeProfit(purchasePrice, snap.Price, e.profitTargetPct):
			d.Action = models.ActionSell
			d.Quantity = snap.FreeBalance
			d.Reason = "profit target reached"
		case hasPurchase && ShouldTrailingStop(purchasePrice, snap.Price, e.profitTargetPct, e.trailingStopPct):
			d.Action = models.ActionSell
			d.Quantity = snap.FreeBalance
			d.Reason = "trailing stop triggered"
		case !hasPurchase:
			// A balance exists but no purchase price is recorded (manual
			// deposit or store loss). Exits are impossible until a future
			// buy re-records a price; this passthrough is deliberate.
			d.Reason = "held but no purchase price recorded"
		default:
			d.Reason = "profit target not reached"
		}
		return d, nil
	}

	// Flat: only the entry rule applies.
	if ShouldBuy(rsi, threshold, balanceValue) {
		d.Action = models.ActionBuy
		d.Notional = snap.Symbol.NotionalAmount
		d.Rounding = snap.Symbol.Rounding
		d.Reason = "rsi below dynamic threshold"
		return d, nil
	}

	if math.IsNaN(rsi) {
		d.Reason = "insufficient history for rsi"
	} else {
		d.Reason = "rsi above dynamic threshold"
	}
	return d, nil
}
