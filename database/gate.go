package database

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Gate 串行访问门：同一时刻只允许一个数据库操作（读或写）执行
// 等待者的先后顺序不做保证
type Gate struct {
	sem *semaphore.Weighted
}

// NewGate 创建串行访问门
func NewGate() *Gate {
	return &Gate{sem: semaphore.NewWeighted(1)}
}

// serialGate 进程内所有 Store 共享的串行访问门
var serialGate = NewGate()

// Acquire 进入临界区，返回的 release 必须在所有退出路径上调用（可重复调用）
// ctx 在等待期间被取消时返回 ctx.Err()，不会进入临界区；已进入的操作不会被中断
func (g *Gate) Acquire(ctx context.Context) (release func(), err error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() { g.sem.Release(1) })
	}, nil
}
