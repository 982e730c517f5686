package exchange

import (
	"context"

	"binance-momentum-bot-go/internal/models"
)

// Exchange 定义了交易循环所需的全部交易所能力。
// 决策引擎不直接依赖它，只消费由它取回的 MarketSnapshot 数据。
type Exchange interface {
	// RecentCloses 返回指定交易对的历史收盘价，时间升序（最新的在最后）。
	RecentCloses(ctx context.Context, symbol, interval string, limit int) ([]float64, error)

	// CurrentPrice 返回指定交易对的当前价格。
	CurrentPrice(ctx context.Context, symbol string) (float64, error)

	// FreeBalance 返回账户中指定资产的可用余额，账户中没有该资产时返回 0。
	FreeBalance(ctx context.Context, asset string) (float64, error)

	// MarketBuy 提交市价买单。quantity 是基础货币数量的字符串表示。
	MarketBuy(ctx context.Context, symbol, quantity, clientOrderID string) (*models.OrderReceipt, error)

	// MarketSell 提交市价卖单。
	MarketSell(ctx context.Context, symbol, quantity, clientOrderID string) (*models.OrderReceipt, error)
}
