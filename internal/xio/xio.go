// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package xio provides the small set of non-blocking-control-flow and
// spin-wait primitives that the bounded pool needs.
//
// The teacher module sources these from code.hybscloud.com/iox and
// code.hybscloud.com/spin, two private packages that are not resolvable
// outside their publishing org. xio folds the handful of symbols actually
// used (ErrWouldBlock, an adaptive backoff, and a spin counter) into one
// internal package built on the standard library.
package xio

import (
	"errors"
	"runtime"
	"time"
)

// ErrWouldBlock is returned by a non-blocking operation that cannot make
// progress immediately.
var ErrWouldBlock = errors.New("xio: would block")

// Wait is a short spin counter for tight CAS retry loops. Once spins a
// fixed number of times before yielding the processor, matching the
// escalation a hardware spinlock would use ahead of an OS-level wait.
type Wait struct {
	n int
}

// Once advances the spin counter by one step, yielding the goroutine's
// processor once the counter passes a small threshold.
func (w *Wait) Once() {
	w.n++
	if w.n > 4 {
		runtime.Gosched()
	}
}

// Backoff is an adaptive wait used when a bounded pool is temporarily
// empty or full in blocking mode. It escalates from a yield to short
// fixed sleeps to a linearly growing sleep capped at 500µs, acknowledging that the condition it is
// waiting on (an external Put/Get completing) is resolved by another
// goroutine rather than by busy work.
type Backoff struct {
	n int
}

// Wait performs one step of the backoff and blocks the calling goroutine
// for a short, increasing interval.
func (b *Backoff) Wait() {
	b.n++
	switch {
	case b.n < 4:
		runtime.Gosched()
	case b.n < 16:
		time.Sleep(time.Microsecond)
	default:
		time.Sleep(time.Duration(min(b.n-16, 50)) * time.Microsecond * 10)
	}
}

// Yield yields the current goroutine's processor to the Go scheduler.
func Yield() {
	runtime.Gosched()
}
