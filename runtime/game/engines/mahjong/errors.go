package mahjong

import "errors"

var (
	// ErrInvariantViolation 状态转移后内部一致性被破坏，牌桌必须中止
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrTableDamaged 牌桌已因内部错误中止，不再接受命令
	ErrTableDamaged = errors.New("table damaged")
	// ErrTableClosed 牌桌已关闭
	ErrTableClosed = errors.New("table closed")
)
