package bot

import (
	"context"
	"errors"
	"strconv"
	"time"

	"binance-momentum-bot-go/internal/exchange"
	"binance-momentum-bot-go/internal/journal"
	"binance-momentum-bot-go/internal/logger"
	"binance-momentum-bot-go/internal/models"
	"binance-momentum-bot-go/internal/position"
	"binance-momentum-bot-go/internal/reporter"
	"binance-momentum-bot-go/internal/strategy"

	"github.com/adshao/go-binance/v2/common"
	"github.com/jxskiss/base62"
	"github.com/shopspring/decimal"
)

// TradingBot 是动量交易机器人的核心结构。
// 它按固定间隔轮询市场，依次处理每个交易对：取数据、评估决策、执行订单。
// 所有处理都是顺序的，不存在并发访问共享状态的情况。
type TradingBot struct {
	config      *models.Config
	exchange    exchange.Exchange
	tracker     *position.Tracker
	engine      *strategy.Engine
	journal     *journal.Journal // 可为 nil，表示不记录成交流水
	stopChannel chan struct{}
}

// NewTradingBot 创建一个新的交易机器人实例
func NewTradingBot(cfg *models.Config, ex exchange.Exchange, tracker *position.Tracker, engine *strategy.Engine, j *journal.Journal) *TradingBot {
	return &TradingBot{
		config:      cfg,
		exchange:    ex,
		tracker:     tracker,
		engine:      engine,
		journal:     j,
		stopChannel: make(chan struct{}),
	}
}

// Run 启动主交易循环，直到 ctx 被取消或调用 Stop 为止。
// 每个周期结束后休眠配置的轮询间隔，再开始下一个周期。
func (b *TradingBot) Run(ctx context.Context) error {
	interval := time.Duration(b.config.PollIntervalSec) * time.Second
	logger.S().Infof("交易循环启动，轮询间隔 %v，交易对数量 %d", interval, len(b.config.Symbols))

	for {
		results := b.runCycle(ctx)
		logger.S().Infof("周期完成\n%s", reporter.RenderCycle(results, time.Now()))

		select {
		case <-ctx.Done():
			logger.S().Info("上下文已取消，交易循环退出")
			return ctx.Err()
		case <-b.stopChannel:
			logger.S().Info("收到停止信号，交易循环退出")
			return nil
		case <-time.After(interval):
		}
	}
}

// Stop 请求交易循环在当前周期结束后退出
func (b *TradingBot) Stop() {
	close(b.stopChannel)
}

// runCycle 依次处理所有配置的交易对。
// 单个交易对出错只记录在它自己的结果里，不影响其余交易对。
func (b *TradingBot) runCycle(ctx context.Context) []models.CycleResult {
	results := make([]models.CycleResult, 0, len(b.config.Symbols))
	for _, sym := range b.config.Symbols {
		result := b.processSymbol(ctx, sym)
		if result.Err != nil {
			logger.S().Warnf("处理 %s 出错: %v", sym.Symbol, result.Err)
		}
		results = append(results, result)
	}
	return results
}

// processSymbol 完成单个交易对的一个完整处理周期：快照、决策、执行。
func (b *TradingBot) processSymbol(ctx context.Context, sym models.SymbolConfig) models.CycleResult {
	result := models.CycleResult{Symbol: sym.Symbol}

	snap, err := b.buildSnapshot(ctx, sym)
	if err != nil {
		result.Err = err
		return result
	}

	decision, err := b.engine.Evaluate(snap)
	if err != nil {
		result.Err = err
		return result
	}
	result.Decision = decision

	logger.S().Debugf("%s 决策: %s (%s), RSI=%.2f 阈值=%d 价格=%.8f",
		sym.Symbol, decision.Action, decision.Reason,
		decision.Signals.RSI, decision.Signals.RSIThreshold, decision.Price)

	switch decision.Action {
	case models.ActionBuy:
		result.Receipt, result.Err = b.executeBuy(ctx, decision)
		result.Executed = result.Err == nil && result.Receipt != nil
	case models.ActionSell:
		result.Receipt, result.Err = b.executeSell(ctx, decision)
		result.Executed = result.Err == nil && result.Receipt != nil
	}
	return result
}

// buildSnapshot 从交易所取回单个交易对的市场和账户状态。
// 任何一步失败都视为瞬时错误，跳过该交易对的本周期处理。
func (b *TradingBot) buildSnapshot(ctx context.Context, sym models.SymbolConfig) (*models.MarketSnapshot, error) {
	price, err := b.exchange.CurrentPrice(ctx, sym.Symbol)
	if err != nil {
		return nil, models.NewCycleError(models.ErrKindTransient, sym.Symbol, "fetch price", err)
	}

	closes, err := b.exchange.RecentCloses(ctx, sym.Symbol, b.config.KlineInterval, b.config.CandleLimit)
	if err != nil {
		return nil, models.NewCycleError(models.ErrKindTransient, sym.Symbol, "fetch klines", err)
	}

	balance, err := b.exchange.FreeBalance(ctx, sym.BaseAsset())
	if err != nil {
		return nil, models.NewCycleError(models.ErrKindTransient, sym.Symbol, "fetch balance", err)
	}

	return &models.MarketSnapshot{
		Symbol:      sym,
		Price:       price,
		Closes:      closes,
		FreeBalance: balance,
	}, nil
}

// executeBuy 提交市价买单，成功后记录持仓成本价。
// 下单被拒绝时持仓状态保持不变。
func (b *TradingBot) executeBuy(ctx context.Context, d *models.Decision) (*models.OrderReceipt, error) {
	quantity := buyQuantity(d.Notional, d.Price, d.Rounding)
	if quantity == "" {
		return nil, models.NewCycleError(models.ErrKindOrderRejected, d.Symbol, "size order",
			errors.New("取整后买入数量为零"))
	}

	if b.config.DryRun {
		logger.S().Infof("[模拟] %s 买入 %s @ %.8f (金额 %.2f)", d.Symbol, quantity, d.Price, d.Notional)
		return nil, nil
	}

	clientOrderID := newClientOrderID()
	receipt, err := b.exchange.MarketBuy(ctx, d.Symbol, quantity, clientOrderID)
	if err != nil {
		return nil, classifyOrderErr(d.Symbol, "market buy", err)
	}
	logger.S().Infof("%s 买入成功: 数量 %s, 订单号 %d", d.Symbol, receipt.ExecutedQty, receipt.OrderID)

	// 成功买入后才写入成本价，写入失败不回滚订单，只上报持久化错误
	if err := b.tracker.RecordPurchase(d.Symbol, d.Price); err != nil {
		return receipt, models.NewCycleError(models.ErrKindPersistence, d.Symbol, "record purchase price", err)
	}

	b.recordTrade(d, receipt, "BUY", quantity)
	return receipt, nil
}

// executeSell 提交市价卖单清空持仓，成功后清除持仓成本价。
func (b *TradingBot) executeSell(ctx context.Context, d *models.Decision) (*models.OrderReceipt, error) {
	quantity := strconv.FormatFloat(d.Quantity, 'f', -1, 64)

	if b.config.DryRun {
		logger.S().Infof("[模拟] %s 卖出 %s @ %.8f (盈亏 %.2f%%)", d.Symbol, quantity, d.Price, d.ProfitPct)
		return nil, nil
	}

	clientOrderID := newClientOrderID()
	receipt, err := b.exchange.MarketSell(ctx, d.Symbol, quantity, clientOrderID)
	if err != nil {
		return nil, classifyOrderErr(d.Symbol, "market sell", err)
	}
	logger.S().Infof("%s 卖出成功: 数量 %s, 盈亏 %.2f%%, 订单号 %d",
		d.Symbol, receipt.ExecutedQty, d.ProfitPct, receipt.OrderID)

	if err := b.tracker.ClearPurchase(d.Symbol); err != nil {
		return receipt, models.NewCycleError(models.ErrKindPersistence, d.Symbol, "clear purchase price", err)
	}

	b.recordTrade(d, receipt, "SELL", quantity)
	return receipt, nil
}

// recordTrade 写入一条成交流水，流水记录失败只告警，不影响交易流程
func (b *TradingBot) recordTrade(d *models.Decision, receipt *models.OrderReceipt, side, quantity string) {
	if b.journal == nil {
		return
	}
	record := &models.TradeRecord{
		Symbol:        d.Symbol,
		Side:          side,
		Price:         d.Price,
		Quantity:      quantity,
		ClientOrderID: receipt.ClientOrderID,
		OrderID:       receipt.OrderID,
		CreatedAt:     time.Now().UnixMilli(),
	}
	if err := b.journal.Record(record); err != nil {
		logger.S().Warnf("记录 %s 成交流水失败: %v", d.Symbol, err)
	}
}

// buyQuantity 根据买入金额和当前价格计算基础货币数量，并按配置取整。
// 返回空字符串表示取整后数量为零，不应下单。
func buyQuantity(notional, price float64, rounding models.RoundingMode) string {
	qty := decimal.NewFromFloat(notional).Div(decimal.NewFromFloat(price))
	switch rounding {
	case models.RoundingFloor:
		qty = qty.Floor()
	case models.RoundingRound:
		qty = qty.Round(0)
	}
	if qty.IsZero() {
		return ""
	}
	return qty.String()
}

// newClientOrderID 生成唯一的客户端订单号
func newClientOrderID() string {
	return "mom-" + string(base62.FormatInt(time.Now().UnixNano()))
}

// classifyOrderErr 区分交易所明确拒单和网络层瞬时错误
func classifyOrderErr(symbol, op string, err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return models.NewCycleError(models.ErrKindOrderRejected, symbol, op, err)
	}
	return models.NewCycleError(models.ErrKindTransient, symbol, op, err)
}
