// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import "code.hybscloud.com/bytebuf"

// Refill is called by an AutoFillingProcessor whenever a peek/read needs
// more bytes than are currently available. It should return the next
// chunk of the stream, or ErrEndOfStream once no further data will
// arrive.
type Refill func() (*bytebuf.Buffer, error)

// AutoFillingProcessor wraps a Processor with a Refill callback: its
// PeekByte/Short/Int/Long, ReadByte/Short/Int/Long, ReadBuffer and Skip
// call Refill in a loop until enough bytes are available instead of
// returning ErrNeedMore to the caller. PeekMatches, PeekMismatch and
// ReadUnsignedByte are the embedded Processor's and do not call Refill.
type AutoFillingProcessor struct {
	*Processor
	refill Refill
}

// NewAutoFilling wraps proc, using refill to satisfy NeedMore conditions
// automatically.
func NewAutoFilling(proc *Processor, refill Refill) *AutoFillingProcessor {
	return &AutoFillingProcessor{Processor: proc, refill: refill}
}

// ensure calls refill in a loop until Available() >= required or the
// stream is finished.
func (a *AutoFillingProcessor) ensure(required int) error {
	for a.Available() < required && !a.Finished() {
		chunk, err := a.refill()
		if err == ErrEndOfStream {
			if ferr := a.Finish(); ferr != nil {
				return ferr
			}
			break
		}
		if err != nil {
			return err
		}
		if err := a.Append(chunk); err != nil {
			return err
		}
	}
	return nil
}

// PeekByte ensures at least offset+1 bytes are available, then peeks.
func (a *AutoFillingProcessor) PeekByte(offset int) (byte, error) {
	if err := a.ensure(offset + 1); err != nil {
		return 0, err
	}
	return a.Processor.PeekByte(offset)
}

// PeekShort ensures at least offset+2 bytes are available, then peeks.
func (a *AutoFillingProcessor) PeekShort(offset int) (int16, error) {
	if err := a.ensure(offset + 2); err != nil {
		return 0, err
	}
	return a.Processor.PeekShort(offset)
}

// PeekInt ensures at least offset+4 bytes are available, then peeks.
func (a *AutoFillingProcessor) PeekInt(offset int) (int32, error) {
	if err := a.ensure(offset + 4); err != nil {
		return 0, err
	}
	return a.Processor.PeekInt(offset)
}

// PeekLong ensures at least offset+8 bytes are available, then peeks.
func (a *AutoFillingProcessor) PeekLong(offset int) (int64, error) {
	if err := a.ensure(offset + 8); err != nil {
		return 0, err
	}
	return a.Processor.PeekLong(offset)
}

// ReadByte ensures at least 1 byte is available, then reads it.
func (a *AutoFillingProcessor) ReadByte() (byte, error) {
	if err := a.ensure(1); err != nil {
		return 0, err
	}
	return a.Processor.ReadByte()
}

// ReadShort ensures at least 2 bytes are available, then reads them.
func (a *AutoFillingProcessor) ReadShort() (int16, error) {
	if err := a.ensure(2); err != nil {
		return 0, err
	}
	return a.Processor.ReadShort()
}

// ReadInt ensures at least 4 bytes are available, then reads them.
func (a *AutoFillingProcessor) ReadInt() (int32, error) {
	if err := a.ensure(4); err != nil {
		return 0, err
	}
	return a.Processor.ReadInt()
}

// ReadLong ensures at least 8 bytes are available, then reads them.
func (a *AutoFillingProcessor) ReadLong() (int64, error) {
	if err := a.ensure(8); err != nil {
		return 0, err
	}
	return a.Processor.ReadLong()
}

// ReadBuffer ensures at least size bytes are available, then reads them.
func (a *AutoFillingProcessor) ReadBuffer(size int) (*bytebuf.Buffer, error) {
	if err := a.ensure(size); err != nil {
		return nil, err
	}
	return a.Processor.ReadBuffer(size)
}

// Skip ensures at least count bytes are available, then skips them.
func (a *AutoFillingProcessor) Skip(count int) error {
	if err := a.ensure(count); err != nil {
		return err
	}
	return a.Processor.Skip(count)
}
