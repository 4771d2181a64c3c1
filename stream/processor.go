// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stream processes an ordered sequence of fragmented chunks as a
// single logical byte stream: peeks and reads that straddle a chunk
// boundary are served transparently, and fully-consumed chunks are
// released back to their pool eagerly.
package stream

import (
	"encoding/binary"
	"errors"
	"io"
	"os"

	"code.hybscloud.com/bytebuf"
)

// Sentinel errors returned by Processor's peek/read operations.
var (
	// ErrNeedMore is returned when the processor is not yet Finished and
	// the requested peek/read needs bytes that have not arrived. It is
	// recoverable: the processor's state is unchanged and the caller
	// should retry after a further Append.
	ErrNeedMore = errors.New("stream: need more data")
	// ErrEndOfStream is returned when the processor is Finished and a
	// peek/read needs more bytes than remain.
	ErrEndOfStream = errors.New("stream: end of stream")
)

// Transform is an optional stage, typically decompression, spliced
// between Append/Finish and the chunk queue: every appended chunk is fed
// through Feed, and every output Buffer it returns becomes a real chunk.
type Transform interface {
	// Feed consumes chunk and returns zero or more output Buffers.
	Feed(chunk []byte) ([]*bytebuf.Buffer, error)
	// Finish flushes any buffered state and returns zero or more
	// trailing output Buffers.
	Finish() ([]*bytebuf.Buffer, error)
}

// Processor holds an ordered queue of chunks and a read cursor over their
// concatenation. It is not safe for concurrent use; append calls must be
// serialized by the caller.
type Processor struct {
	pool      *bytebuf.Pool
	order     binary.ByteOrder
	transform Transform
	chunks    []*bytebuf.Buffer
	available int
	finished  bool
}

// Option configures a Processor at construction.
type Option func(*Processor)

// WithPool sets the Pool chunks are released to when fully consumed, and
// that ReadBuffer uses to allocate a coalescing buffer for cross-chunk
// reads. Without a pool, released chunks are simply dropped and
// coalescing buffers are allocated directly.
func WithPool(p *bytebuf.Pool) Option {
	return func(proc *Processor) { proc.pool = p }
}

// WithByteOrder sets the byte order peeks/reads of multi-byte values use.
// The default is binary.BigEndian.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(proc *Processor) { proc.order = order }
}

// WithTransform installs a Transform that every appended chunk is routed
// through before becoming a real chunk in the queue.
func WithTransform(t Transform) Option {
	return func(proc *Processor) { proc.transform = t }
}

// New constructs an empty Processor.
func New(opts ...Option) *Processor {
	p := &Processor{order: binary.BigEndian}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Append enqueues chunk at the tail of the stream. If a Transform is
// configured, chunk is routed through Transform.Feed first and the
// emitted Buffers are enqueued instead.
func (p *Processor) Append(chunk *bytebuf.Buffer) error {
	if p.finished {
		return errors.New("stream: append after finish")
	}
	if p.transform == nil {
		p.enqueue(chunk)
		return nil
	}
	outputs, err := p.transform.Feed(chunk.ReadableBytes())
	if err != nil {
		return err
	}
	for _, out := range outputs {
		p.enqueue(out)
	}
	return nil
}

func (p *Processor) enqueue(chunk *bytebuf.Buffer) {
	p.chunks = append(p.chunks, chunk)
	p.available += chunk.Remaining()
}

// Finish declares that no further Append will occur. If a Transform is
// configured, its Finish is called and any trailing output is enqueued.
// After Finish, a peek/read that needs more bytes than remain fails with
// ErrEndOfStream instead of ErrNeedMore.
func (p *Processor) Finish() error {
	if p.finished {
		return nil
	}
	if p.transform != nil {
		outputs, err := p.transform.Finish()
		if err != nil {
			return err
		}
		for _, out := range outputs {
			p.enqueue(out)
		}
	}
	p.finished = true
	return nil
}

// Available returns the total number of unconsumed bytes across all
// queued chunks.
func (p *Processor) Available() int { return p.available }

// Finished reports whether Finish has been called.
func (p *Processor) Finished() bool { return p.finished }

// Release drops every retained chunk, returning each to the configured
// pool if one was set.
func (p *Processor) Release() {
	for _, c := range p.chunks {
		p.release(c)
	}
	p.chunks = nil
	p.available = 0
}

func (p *Processor) release(c *bytebuf.Buffer) {
	if p.pool != nil {
		p.pool.Release(c)
	}
}

// needErr returns ErrEndOfStream if the processor is finished, else
// ErrNeedMore, the single pair of distinguishable "not enough data"
// signals the package exposes.
func (p *Processor) needErr() error {
	if p.finished {
		return ErrEndOfStream
	}
	return ErrNeedMore
}

// byteAt returns the byte at the given offset from the current cursor
// without consuming it, scanning across chunk boundaries.
func (p *Processor) byteAt(offset int) (byte, bool) {
	if offset >= p.available {
		return 0, false
	}
	remaining := offset
	for _, c := range p.chunks {
		r := c.Remaining()
		if remaining < r {
			v, _ := c.Get(c.Position() + remaining)
			return v, true
		}
		remaining -= r
	}
	return 0, false
}

func (p *Processor) peekWidth(offset, width int) ([]byte, error) {
	if offset+width > p.available {
		return nil, p.needErr()
	}
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		v, ok := p.byteAt(offset + i)
		if !ok {
			return nil, p.needErr()
		}
		out[i] = v
	}
	return out, nil
}

// PeekByte returns the byte at offset from the cursor without consuming
// it.
func (p *Processor) PeekByte(offset int) (byte, error) {
	b, err := p.peekWidth(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// PeekShort returns the int16 at offset from the cursor, honoring the
// processor's byte order, without consuming it.
func (p *Processor) PeekShort(offset int) (int16, error) {
	b, err := p.peekWidth(offset, 2)
	if err != nil {
		return 0, err
	}
	return int16(p.order.Uint16(b)), nil
}

// PeekInt returns the int32 at offset from the cursor, honoring the
// processor's byte order, without consuming it.
func (p *Processor) PeekInt(offset int) (int32, error) {
	b, err := p.peekWidth(offset, 4)
	if err != nil {
		return 0, err
	}
	return int32(p.order.Uint32(b)), nil
}

// PeekLong returns the int64 at offset from the cursor, honoring the
// processor's byte order, without consuming it.
func (p *Processor) PeekLong(offset int) (int64, error) {
	b, err := p.peekWidth(offset, 8)
	if err != nil {
		return 0, err
	}
	return int64(p.order.Uint64(b)), nil
}

// PeekMatches reports whether the next pattern.Remaining() bytes from the
// cursor equal pattern's remaining bytes. Requires Available() >=
// pattern.Remaining(); returns ErrNeedMore/ErrEndOfStream otherwise.
func (p *Processor) PeekMatches(pattern *bytebuf.Buffer) (bool, error) {
	n := pattern.Remaining()
	got, err := p.peekWidth(0, n)
	if err != nil {
		return false, err
	}
	want := pattern.ReadableBytes()
	for i := range want {
		if got[i] != want[i] {
			return false, nil
		}
	}
	return true, nil
}

// PeekMismatch returns the offset of the first byte, from the cursor,
// that differs from pattern, or -1 if the next pattern.Remaining() bytes
// match exactly.
func (p *Processor) PeekMismatch(pattern *bytebuf.Buffer) (int, error) {
	n := pattern.Remaining()
	got, err := p.peekWidth(0, n)
	if err != nil {
		return -1, err
	}
	want := pattern.ReadableBytes()
	for i := range want {
		if got[i] != want[i] {
			return i, nil
		}
	}
	return -1, nil
}

// consume advances the cursor by n bytes, releasing any chunk that
// becomes fully consumed.
func (p *Processor) consume(n int) {
	p.available -= n
	for n > 0 && len(p.chunks) > 0 {
		head := p.chunks[0]
		r := head.Remaining()
		if n < r {
			_ = head.SetPosition(head.Position() + n)
			return
		}
		n -= r
		p.chunks = p.chunks[1:]
		p.release(head)
	}
}

func (p *Processor) readWidth(width int) ([]byte, error) {
	if width > p.available {
		return nil, p.needErr()
	}
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		v, ok := p.byteAt(i)
		if !ok {
			return nil, p.needErr()
		}
		out[i] = v
	}
	p.consume(width)
	return out, nil
}

// ReadByte consumes and returns the next byte.
func (p *Processor) ReadByte() (byte, error) {
	b, err := p.readWidth(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUnsignedByte consumes and returns the next byte.
func (p *Processor) ReadUnsignedByte() (byte, error) {
	return p.ReadByte()
}

// ReadShort consumes and returns the next int16, honoring the processor's
// byte order.
func (p *Processor) ReadShort() (int16, error) {
	b, err := p.readWidth(2)
	if err != nil {
		return 0, err
	}
	return int16(p.order.Uint16(b)), nil
}

// ReadInt consumes and returns the next int32, honoring the processor's
// byte order.
func (p *Processor) ReadInt() (int32, error) {
	b, err := p.readWidth(4)
	if err != nil {
		return 0, err
	}
	return int32(p.order.Uint32(b)), nil
}

// ReadLong consumes and returns the next int64, honoring the processor's
// byte order.
func (p *Processor) ReadLong() (int64, error) {
	b, err := p.readWidth(8)
	if err != nil {
		return 0, err
	}
	return int64(p.order.Uint64(b)), nil
}

// Skip consumes and discards the next count bytes.
func (p *Processor) Skip(count int) error {
	if count > p.available {
		return p.needErr()
	}
	p.consume(count)
	return nil
}

// ReadBuffer consumes exactly size bytes and returns them as a Buffer. If
// size bytes lie entirely within the head chunk, the returned Buffer is a
// zero-copy Slice of it; otherwise ReadBuffer coalesces the bytes into a
// freshly allocated Buffer (drawn from the configured pool, if any).
func (p *Processor) ReadBuffer(size int) (*bytebuf.Buffer, error) {
	if size > p.available {
		return nil, p.needErr()
	}
	if len(p.chunks) > 0 && p.chunks[0].Remaining() >= size {
		head := p.chunks[0]
		start := head.Position()
		_ = head.SetPosition(start + size)
		out := bytebuf.Wrap(head.Bytes()[start : start+size])
		out.SetOrder(p.order)
		p.available -= size
		if head.Remaining() == 0 {
			p.chunks = p.chunks[1:]
			p.release(head)
		}
		return out, nil
	}

	var out *bytebuf.Buffer
	if p.pool != nil {
		out = p.pool.Acquire(size)
		_ = out.SetLimit(size)
	} else {
		out = bytebuf.New(size)
	}
	out.SetOrder(p.order)
	remaining := size
	for remaining > 0 {
		head := p.chunks[0]
		r := head.Remaining()
		n := min(r, remaining)
		_ = out.WriteBytes(head.Bytes(), head.Position(), n)
		_ = head.SetPosition(head.Position() + n)
		remaining -= n
		if head.Remaining() == 0 {
			p.chunks = p.chunks[1:]
			p.release(head)
		}
	}
	p.available -= size
	out.ResetForRead()
	return out, nil
}

// WriteVectored writes every queued chunk's remaining bytes to w in a
// single vectored syscall, without consuming the processor's cursor. When
// w is a *os.File, the chunks are passed as IoVec descriptors straight to
// writev(2) via bytebuf.WritevFile; for any other io.Writer (including
// *net.TCPConn, which performs its own writev under the hood), the chunks
// are handed to net.Buffers.WriteTo instead.
func (p *Processor) WriteVectored(w io.Writer) (int64, error) {
	if f, ok := w.(*os.File); ok {
		vecs := bytebuf.IoVecFromBuffers(p.chunks)
		n, err := bytebuf.WritevFile(f, vecs)
		if !errors.Is(err, bytebuf.ErrWritevUnsupported) {
			return n, err
		}
	}
	bufs := make(bytebuf.Buffers, 0, len(p.chunks))
	for _, c := range p.chunks {
		bufs = append(bufs, c.ReadableBytes())
	}
	return bufs.WriteTo(w)
}
