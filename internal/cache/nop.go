package cache

import (
	"context"
	"time"
)

// Nop 禁用缓存时使用：永远未命中，写入永远失败
type Nop struct{}

func NewNop() Nop { return Nop{} }

func (Nop) Get(context.Context, string) ([]byte, bool) {
	record("get", "skipped")
	return nil, false
}

func (Nop) Set(context.Context, string, []byte, time.Duration) bool {
	record("set", "skipped")
	return false
}

func (Nop) Delete(context.Context, string) bool { return false }

func (Nop) Exists(context.Context, string) bool { return false }

func (Nop) Increment(context.Context, string) (int64, bool) { return 0, false }

var _ Cache = Nop{}
