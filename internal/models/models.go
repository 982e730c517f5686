package models

import "strings"

// Config 结构体定义了机器人的所有配置参数
type Config struct {
	IsTestnet       bool           `json:"is_testnet"`            // 是否使用测试网
	DBPath          string         `json:"db_path"`               // 持仓价格数据库路径 (BadgerDB)
	JournalPath     string         `json:"journal_path"`          // 成交流水数据库路径 (SQLite)，为空则不记录
	Symbols         []SymbolConfig `json:"symbols"`               // 交易对列表，按配置顺序依次处理
	RSIPeriod       int            `json:"rsi_period"`            // RSI 计算周期
	KlineInterval   string         `json:"kline_interval"`        // K线周期，如 "5m"
	CandleLimit     int            `json:"candle_limit"`          // 每次拉取的K线数量
	PollIntervalSec int            `json:"poll_interval_seconds"` // 轮询间隔（秒）
	ProfitTargetPct float64        `json:"profit_target_pct"`     // 止盈目标百分比
	TrailingStopPct float64        `json:"trailing_stop_pct"`     // 移动止盈回撤百分比
	DryRun          bool           `json:"dry_run"`               // 只记录决策，不真正下单
	LogConfig       LogConfig      `json:"log"`                   // 日志配置
}

// SymbolConfig 定义了单个交易对的静态配置，进程生命周期内不变
type SymbolConfig struct {
	Symbol         string       `json:"symbol"`          // 交易对，如 "ETHUSDT"
	QuoteAsset     string       `json:"quote_asset"`     // 计价货币，默认 "USDT"
	Rounding       RoundingMode `json:"rounding"`        // 买入数量取整方式
	NotionalAmount float64      `json:"notional_amount"` // 每次买入花费的计价货币金额
}

// BaseAsset 返回交易对的基础货币，如 "ETHUSDT" -> "ETH"
func (s SymbolConfig) BaseAsset() string {
	return strings.TrimSuffix(s.Symbol, s.QuoteAsset)
}

// RoundingMode 定义了买入数量的取整方式
type RoundingMode string

const (
	RoundingFloor RoundingMode = "floor" // 向下取整为整数
	RoundingRound RoundingMode = "round" // 四舍五入为整数
	RoundingNone  RoundingMode = "none"  // 不取整
)

// LogConfig 定义了日志相关的配置
type LogConfig struct {
	Level      string `json:"level"`       // 日志级别, e.g., "debug", "info", "warn", "error"
	Output     string `json:"output"`      // 输出模式: "console", "file", "both"
	File       string `json:"file"`        // 日志文件路径
	MaxSize    int    `json:"max_size"`    // 单个日志文件的最大大小 (MB)
	MaxBackups int    `json:"max_backups"` // 保留的旧日志文件最大数量
	MaxAge     int    `json:"max_age"`     // 旧日志文件的最大保留天数
	Compress   bool   `json:"compress"`    // 是否压缩旧日志文件
}

// MarketSnapshot 是单个交易对在一个轮询周期内观察到的市场和账户状态。
// 每个周期重新构建，不持久化。
type MarketSnapshot struct {
	Symbol      SymbolConfig
	Price       float64   // 当前价格
	Closes      []float64 // 历史收盘价，时间升序（最新的在最后）
	FreeBalance float64   // 账户中基础货币的可用余额
}

// Signals 是从一个快照派生出的指标值。
// 历史数据不足时 RSI 和布林带为 NaN。
type Signals struct {
	RSI          float64
	UpperBand    float64
	LowerBand    float64
	RSIThreshold int // 动态RSI买入阈值，取值 {24, 27, 30}
}

// ActionType 定义了决策引擎的输出动作类型
type ActionType string

const (
	ActionNone ActionType = "NONE"
	ActionBuy  ActionType = "BUY"
	ActionSell ActionType = "SELL"
)

// Decision 是决策引擎对单个交易对在单个周期内的唯一输出。
// 同一个周期内绝不会对同一交易对同时给出买入和卖出。
type Decision struct {
	Action        ActionType
	Symbol        string
	Price         float64      // 决策时的当前价格
	Quantity      float64      // 卖出数量（基础货币），仅 Sell 有效
	Notional      float64      // 买入金额（计价货币），仅 Buy 有效
	Rounding      RoundingMode // 买入数量取整方式，仅 Buy 有效
	Signals       Signals
	PurchasePrice float64 // 持仓成本价，未记录时为 0
	HasPurchase   bool    // 是否存在已记录的持仓成本价
	ProfitPct     float64 // 相对持仓成本的盈亏百分比，无成本价时为 0
	Reason        string  // 决策原因，用于日志和报表
}

// OrderReceipt 是交易所接受订单后的回执
type OrderReceipt struct {
	Symbol        string
	OrderID       int64
	ClientOrderID string
	ExecutedQty   string
	Status        string
}

// CycleResult 记录一个周期内单个交易对的处理结果。
// 单个交易对的错误只体现在自己的结果里，不会中断其余交易对的处理。
type CycleResult struct {
	Symbol   string
	Decision *Decision
	Receipt  *OrderReceipt
	Executed bool
	Err      error
}

// TradeRecord 是写入成交流水的一条记录
type TradeRecord struct {
	Symbol        string
	Side          string // "BUY" 或 "SELL"
	Price         float64
	Quantity      string
	ClientOrderID string
	OrderID       int64
	CreatedAt     int64 // Unix 毫秒
}
