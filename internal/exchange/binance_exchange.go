package exchange

import (
	"context"
	"fmt"
	"strconv"

	"binance-momentum-bot-go/internal/models"

	"github.com/adshao/go-binance/v2"
)

// BinanceExchange 基于币安现货REST API实现 Exchange 接口。
type BinanceExchange struct {
	client *binance.Client
}

// NewBinanceExchange 创建一个新的币安现货客户端。
// useTestnet 为 true 时所有请求指向币安测试网。
func NewBinanceExchange(apiKey, secretKey string, useTestnet bool) *BinanceExchange {
	binance.UseTestnet = useTestnet
	return &BinanceExchange{
		client: binance.NewClient(apiKey, secretKey),
	}
}

// RecentCloses 拉取最近的K线并提取收盘价，时间升序。
func (e *BinanceExchange) RecentCloses(ctx context.Context, symbol, interval string, limit int) ([]float64, error) {
	klines, err := e.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("拉取 %s K线失败: %w", symbol, err)
	}

	closes := make([]float64, 0, len(klines))
	for _, k := range klines {
		c, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("解析 %s 收盘价失败: %w", symbol, err)
		}
		closes = append(closes, c)
	}
	return closes, nil
}

// CurrentPrice 返回指定交易对的最新成交价。
func (e *BinanceExchange) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := e.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("获取 %s 价格失败: %w", symbol, err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("交易所未返回 %s 的价格", symbol)
	}
	return strconv.ParseFloat(prices[0].Price, 64)
}

// FreeBalance 返回账户中指定资产的可用余额。
// 资产不在账户余额列表中时返回 0，与交易所对空仓资产的表现一致。
func (e *BinanceExchange) FreeBalance(ctx context.Context, asset string) (float64, error) {
	account, err := e.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("获取账户信息失败: %w", err)
	}

	for _, b := range account.Balances {
		if b.Asset == asset {
			return strconv.ParseFloat(b.Free, 64)
		}
	}
	return 0, nil
}

// MarketBuy 提交市价买单。
func (e *BinanceExchange) MarketBuy(ctx context.Context, symbol, quantity, clientOrderID string) (*models.OrderReceipt, error) {
	return e.submitMarketOrder(ctx, symbol, quantity, clientOrderID, binance.SideTypeBuy)
}

// MarketSell 提交市价卖单。
func (e *BinanceExchange) MarketSell(ctx context.Context, symbol, quantity, clientOrderID string) (*models.OrderReceipt, error) {
	return e.submitMarketOrder(ctx, symbol, quantity, clientOrderID, binance.SideTypeSell)
}

func (e *BinanceExchange) submitMarketOrder(ctx context.Context, symbol, quantity, clientOrderID string, side binance.SideType) (*models.OrderReceipt, error) {
	svc := e.client.NewCreateOrderService().
		Symbol(symbol).
		Side(side).
		Type(binance.OrderTypeMarket).
		Quantity(quantity)
	if clientOrderID != "" {
		svc = svc.NewClientOrderID(clientOrderID)
	}

	order, err := svc.Do(ctx)
	if err != nil {
		// 原始错误（含币安错误码）原样向上传递，由调用方分类
		return nil, err
	}

	return &models.OrderReceipt{
		Symbol:        order.Symbol,
		OrderID:       order.OrderID,
		ClientOrderID: order.ClientOrderID,
		ExecutedQty:   order.ExecutedQuantity,
		Status:        string(order.Status),
	}, nil
}
