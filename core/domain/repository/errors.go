package repository

import "errors"

var (
	ErrGameRecordNotFound  = errors.New("game record not found")
	ErrRoundRecordNotFound = errors.New("round record not found")
	ErrSnapshotNotFound    = errors.New("table snapshot not found")

	// ErrStaleSnapshot 写入的快照步数不比已存的新
	ErrStaleSnapshot = errors.New("stale table snapshot")

	ErrMongodb = errors.New("mongodb error happen")
	ErrRedis   = errors.New("redis error happen")
)
