package models

import (
	"errors"
	"fmt"
)

// ErrorKind 对单个交易对周期内可能出现的错误进行分类
type ErrorKind int

const (
	// ErrKindTransient 网络或限频等临时性错误，下个周期重试
	ErrKindTransient ErrorKind = iota
	// ErrKindInsufficientData 历史数据不足，指标无法计算
	ErrKindInsufficientData
	// ErrKindPersistence 持仓价格存储读写失败
	ErrKindPersistence
	// ErrKindOrderRejected 交易所拒绝订单，持仓状态保持不变
	ErrKindOrderRejected
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindTransient:
		return "transient"
	case ErrKindInsufficientData:
		return "insufficient_data"
	case ErrKindPersistence:
		return "persistence"
	case ErrKindOrderRejected:
		return "order_rejected"
	}
	return "unknown"
}

// CycleError 是带分类的单交易对错误。
// 它只影响本交易对在本周期的结果，绝不会向上传播中断整个周期。
type CycleError struct {
	Kind   ErrorKind
	Symbol string
	Op     string
	Err    error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Symbol, e.Op, e.Kind, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}

// NewCycleError 包装一个底层错误并附上分类
func NewCycleError(kind ErrorKind, symbol, op string, err error) *CycleError {
	return &CycleError{Kind: kind, Symbol: symbol, Op: op, Err: err}
}

// ErrInsufficientData 表示指标所需的历史数据不足
var ErrInsufficientData = errors.New("insufficient price history for indicator")
