package client

import "sync/atomic"

// Fence hands out increasing tokens so only the newest of overlapping
// requests gets applied.
type Fence struct {
	latest atomic.Uint64
}

func (f *Fence) Begin() uint64 { return f.latest.Add(1) }

func (f *Fence) IsLatest(token uint64) bool { return f.latest.Load() == token }
