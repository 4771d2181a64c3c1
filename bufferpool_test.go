// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytebuf_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/bytebuf"
)

func TestPoolAcquireReleaseReusesBuffer(t *testing.T) {
	p := bytebuf.NewPool(bytebuf.SingleThreaded)
	buf := p.Acquire(1024)
	cap1 := buf.Capacity()
	p.Release(buf)

	buf2 := p.Acquire(1024)
	if buf2.Capacity() != cap1 {
		t.Fatalf("Acquire after Release capacity = %d, want %d", buf2.Capacity(), cap1)
	}
	stats := p.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("stats = %+v, want 1 hit and 1 miss", stats)
	}
}

func TestPoolAcquireTierSelection(t *testing.T) {
	p := bytebuf.NewPool(bytebuf.SingleThreaded)
	buf := p.Acquire(100)
	if buf.Capacity() < 100 {
		t.Fatalf("Acquire(100) capacity = %d, want >= 100", buf.Capacity())
	}
	if buf.Capacity() != bytebuf.BufferSizeNano {
		t.Fatalf("Acquire(100) capacity = %d, want tier Nano (%d)", buf.Capacity(), bytebuf.BufferSizeNano)
	}
}

func TestPoolClearDropsIdleBuffers(t *testing.T) {
	p := bytebuf.NewPool(bytebuf.SingleThreaded)
	p.Release(bytebuf.New(bytebuf.BufferSizeSmall))
	if got := p.Stats().CurrentPoolSize; got != 1 {
		t.Fatalf("CurrentPoolSize = %d, want 1", got)
	}
	p.Clear()
	if got := p.Stats().CurrentPoolSize; got != 0 {
		t.Fatalf("CurrentPoolSize after Clear = %d, want 0", got)
	}
}

func TestPoolWithBufferReleasesOnError(t *testing.T) {
	p := bytebuf.NewPool(bytebuf.SingleThreaded)
	sentinel := bytebuf.ErrBufferOverflow
	err := p.WithBuffer(64, func(buf *bytebuf.Buffer) error {
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("WithBuffer err = %v, want %v", err, sentinel)
	}
	if got := p.Stats().CurrentPoolSize; got != 1 {
		t.Fatalf("CurrentPoolSize after WithBuffer error = %d, want 1 (buffer released)", got)
	}
}

func TestPoolMultiThreadedConcurrentAccess(t *testing.T) {
	p := bytebuf.NewPool(bytebuf.MultiThreaded)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf := p.Acquire(bytebuf.BufferSizeMicro)
				_ = buf.WriteByte(1)
				p.Release(buf)
			}
		}()
	}
	wg.Wait()
	stats := p.Stats()
	if stats.Hits+stats.Misses != 3200 {
		t.Fatalf("hits+misses = %d, want 3200", stats.Hits+stats.Misses)
	}
}

func TestPoolHitRate(t *testing.T) {
	var s bytebuf.Stats
	if s.HitRate() != 0 {
		t.Fatalf("HitRate on empty stats = %f, want 0", s.HitRate())
	}
	s = bytebuf.Stats{Hits: 3, Misses: 1}
	if s.HitRate() != 0.75 {
		t.Fatalf("HitRate = %f, want 0.75", s.HitRate())
	}
}
