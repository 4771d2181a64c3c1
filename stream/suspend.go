// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import (
	"context"

	"code.hybscloud.com/bytebuf"
)

// RefillContext is the asynchronous counterpart of Refill: it may suspend
// the calling goroutine (e.g. waiting on a network read) and must honor
// ctx cancellation.
type RefillContext func(ctx context.Context) (*bytebuf.Buffer, error)

// SuspendingProcessor is the asynchronous variant of AutoFillingProcessor.
// Its suspension points are AppendContext and the RefillContext
// callback, which AppendContext and the ReadBuffer/ReadByte/Skip wrappers
// invoke; reads and peeks themselves never suspend. Cancelling ctx during a suspended call leaves already-appended
// bytes intact and does not corrupt the underlying Processor's state, so
// a later call can resume where the cancelled one left off.
type SuspendingProcessor struct {
	*Processor
	refill RefillContext
}

// NewSuspending wraps proc with a context-aware refill callback.
func NewSuspending(proc *Processor, refill RefillContext) *SuspendingProcessor {
	return &SuspendingProcessor{Processor: proc, refill: refill}
}

// AppendContext calls refill to obtain the next chunk and appends it,
// suspending on ctx as refill dictates. Cancellation before refill
// returns leaves the processor's queued chunks untouched.
func (s *SuspendingProcessor) AppendContext(ctx context.Context) error {
	chunk, err := s.refill(ctx)
	if err != nil {
		return err
	}
	return s.Append(chunk)
}

// ensureContext calls refill and appends each chunk in a loop until
// Available() >= required, the stream finishes (refill returned
// ErrEndOfStream), or ctx is done.
func (s *SuspendingProcessor) ensureContext(ctx context.Context, required int) error {
	for s.Available() < required && !s.Finished() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		chunk, err := s.refill(ctx)
		if err == ErrEndOfStream {
			return s.Finish()
		}
		if err != nil {
			return err
		}
		if err := s.Append(chunk); err != nil {
			return err
		}
	}
	return nil
}

// ReadBuffer suspends on refill until size bytes are available, then
// reads them. Read/peek operations themselves never suspend; only the
// refill callback this method drives does.
func (s *SuspendingProcessor) ReadBuffer(ctx context.Context, size int) (*bytebuf.Buffer, error) {
	if err := s.ensureContext(ctx, size); err != nil {
		return nil, err
	}
	return s.Processor.ReadBuffer(size)
}

// ReadByte suspends on refill until a byte is available, then reads it.
func (s *SuspendingProcessor) ReadByte(ctx context.Context) (byte, error) {
	if err := s.ensureContext(ctx, 1); err != nil {
		return 0, err
	}
	return s.Processor.ReadByte()
}

// Skip suspends on refill until count bytes are available, then skips
// them.
func (s *SuspendingProcessor) Skip(ctx context.Context, count int) error {
	if err := s.ensureContext(ctx, count); err != nil {
		return err
	}
	return s.Processor.Skip(count)
}
