// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package charset implements streaming, chunk-boundary-independent
// decoding of byte buffers into text: feeding the same byte stream to a
// Decoder one chunk at a time, in order, produces exactly the same
// output as feeding it in one shot.
package charset

import (
	"fmt"
	"strings"

	"code.hybscloud.com/bytebuf"
)

// Charset identifies a supported text encoding.
type Charset int

const (
	UTF8 Charset = iota
	UTF16
	UTF16BE
	UTF16LE
	UTF32
	UTF32BE
	UTF32LE
	ASCII
	Latin1
)

// String returns the canonical name of c.
func (c Charset) String() string {
	switch c {
	case UTF8:
		return "UTF-8"
	case UTF16:
		return "UTF-16"
	case UTF16BE:
		return "UTF-16BE"
	case UTF16LE:
		return "UTF-16LE"
	case UTF32:
		return "UTF-32"
	case UTF32BE:
		return "UTF-32BE"
	case UTF32LE:
		return "UTF-32LE"
	case ASCII:
		return "ASCII"
	case Latin1:
		return "ISO-8859-1"
	default:
		return "unknown"
	}
}

// MalformedInputPolicy selects how a Decoder handles a malformed or
// unmappable sequence.
type MalformedInputPolicy int

const (
	// Report raises a *DecodingError positioned at the offset, in the
	// overall decoded stream, where the bad sequence begins.
	Report MalformedInputPolicy = iota
	// Replace emits U+FFFD and resumes right after the bad unit. In UTF-8
	// that unit is a single byte: continuation bytes that follow a bad
	// lead byte are not skipped, and each yields its own U+FFFD.
	Replace
)

// DecodingError reports a malformed or unmappable byte sequence
// encountered in Report mode. Offset is the position, within the total
// number of bytes the Decoder has consumed across its lifetime, where
// the bad sequence begins.
type DecodingError struct {
	Charset Charset
	Offset  int64
	Detail  string
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("charset: malformed %s sequence at offset %d: %s", e.Charset, e.Offset, e.Detail)
}

// EncodingError reports a character that cannot be encoded to the target
// charset.
type EncodingError struct {
	Charset Charset
	Rune    rune
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("charset: cannot encode %q to %s", e.Rune, e.Charset)
}

// ErrClosed is returned by any operation on a Decoder after Close.
type ErrClosed struct{}

func (ErrClosed) Error() string { return "charset: decoder is closed" }

// codec is the per-charset incremental decode strategy a Decoder drives.
// feed consumes as much of in as forms complete sequences, writes decoded
// runes to out, and returns the number of bytes consumed plus the number
// of UTF-16 code units the written runes represent (1 for runes in the
// BMP, 2 for a surrogate pair's astral rune). Any trailing bytes that do
// not yet form a complete sequence are left unconsumed and carried over
// by the Decoder as pending state.
type codec interface {
	feed(in []byte, baseOffset int64, policy MalformedInputPolicy, out *strings.Builder) (consumed, codeUnits int, err error)
	finishPending(pending []byte, baseOffset int64, policy MalformedInputPolicy, out *strings.Builder) (codeUnits int, err error)
}

// utf16Width returns the number of UTF-16 code units r occupies: 2 for an
// astral-plane rune (encoded as a surrogate pair), 1 otherwise.
func utf16Width(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// Decoder incrementally decodes bytes read from Buffers into text,
// carrying at most a few bytes of pending state across Decode calls so
// that callers can feed it arbitrarily split chunks of the same stream.
//
// A Decoder is not safe for concurrent use; use one instance per stream.
type Decoder struct {
	charset     Charset
	codec       codec
	onInput     MalformedInputPolicy
	pending     []byte
	consumed    int64
	closed      bool
	sniffNeeded bool
	sniffWidth  int
}

// Option configures a Decoder at construction.
type Option func(*Decoder)

// WithMalformedInputPolicy sets how malformed or unmappable sequences are
// handled. The default is Replace.
func WithMalformedInputPolicy(policy MalformedInputPolicy) Option {
	return func(d *Decoder) { d.onInput = policy }
}

// NewDecoder constructs a Decoder for the given charset. UTF16 and UTF32
// are BOM-sniffing: the first Decode call inspects the leading bytes of the
// stream for a byte-order mark, selects the BE or LE codec accordingly, and
// consumes the mark; if no mark is present the stream is decoded BE. Use
// UTF16BE/UTF16LE/UTF32BE/UTF32LE directly to force a byte order and treat
// a leading mark as ordinary content instead.
func NewDecoder(cs Charset, opts ...Option) *Decoder {
	d := &Decoder{
		charset: cs,
		onInput: Replace,
	}
	switch cs {
	case UTF16:
		d.sniffNeeded = true
		d.sniffWidth = 2
	case UTF32:
		d.sniffNeeded = true
		d.sniffWidth = 4
	default:
		d.codec = codecFor(cs)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func codecFor(cs Charset) codec {
	switch cs {
	case UTF8:
		return utf8Codec{}
	case UTF16BE:
		return utf16Codec{le: false}
	case UTF16LE:
		return utf16Codec{le: true}
	case UTF32BE:
		return utf32Codec{le: false}
	case UTF32LE:
		return utf32Codec{le: true}
	case ASCII:
		return asciiCodec{}
	case Latin1:
		return latin1Codec{}
	default:
		panic("charset: unsupported charset")
	}
}

// sniffBOM inspects the leading bytes of buf for cs's byte-order mark and
// returns the codec to use plus the number of leading bytes the mark
// occupies (0 if absent). cs must be UTF16 or UTF32. Absent a mark, or when
// buf is shorter than the mark, the BE codec is returned with consumed 0.
func sniffBOM(cs Charset, buf []byte) (c codec, consumed int) {
	switch cs {
	case UTF16:
		if len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF {
			return utf16Codec{le: false}, 2
		}
		if len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE {
			return utf16Codec{le: true}, 2
		}
		return utf16Codec{le: false}, 0
	case UTF32:
		if len(buf) >= 4 && buf[0] == 0 && buf[1] == 0 && buf[2] == 0xFE && buf[3] == 0xFF {
			return utf32Codec{le: false}, 4
		}
		if len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0 && buf[3] == 0 {
			return utf32Codec{le: true}, 4
		}
		return utf32Codec{le: false}, 0
	default:
		panic("charset: sniffBOM called for a non-sniffing charset")
	}
}

// Decode consumes all of input's remaining bytes, decoding them per the
// configured charset and appending the resulting text to out. It returns
// the number of UTF-16 code units the decoded text represents (the
// Decoder counts in UTF-16 code units to mirror the core contract even
// though out itself holds UTF-8). Incomplete trailing sequences are
// retained internally and completed by a later Decode or Finish call.
func (d *Decoder) Decode(input *bytebuf.Buffer, out *strings.Builder) (int, error) {
	if d.closed {
		return 0, ErrClosed{}
	}
	chunk := input.ReadableBytes()
	_ = input.SetPosition(input.Limit())

	virtual := chunk
	if len(d.pending) > 0 {
		virtual = append(append([]byte(nil), d.pending...), chunk...)
	}
	newBytes := len(virtual) - len(d.pending)
	baseOffset := d.consumed - int64(len(d.pending))

	if d.sniffNeeded {
		if len(virtual) < d.sniffWidth {
			d.pending = append([]byte(nil), virtual...)
			d.consumed += int64(newBytes)
			return 0, nil
		}
		c, bomLen := sniffBOM(d.charset, virtual)
		d.codec = c
		d.sniffNeeded = false
		virtual = virtual[bomLen:]
		baseOffset += int64(bomLen)
	}

	consumed, codeUnits, err := d.codec.feed(virtual, baseOffset, d.onInput, out)
	d.consumed += int64(newBytes)
	d.pending = append([]byte(nil), virtual[consumed:]...)
	return codeUnits, err
}

// Finish declares end of input and flushes any pending partial sequence.
// If the pending bytes do not form a complete sequence, onMalformedInput
// applies: Report raises *DecodingError, Replace appends U+FFFD.
func (d *Decoder) Finish(out *strings.Builder) (int, error) {
	if d.closed {
		return 0, ErrClosed{}
	}
	if d.sniffNeeded {
		// Fewer than sniffWidth bytes arrived in the stream's lifetime:
		// too short to carry a mark, so fall back to the BE default.
		d.codec, _ = sniffBOM(d.charset, d.pending)
		d.sniffNeeded = false
	}
	if len(d.pending) == 0 {
		return 0, nil
	}
	baseOffset := d.consumed - int64(len(d.pending))
	codeUnits, err := d.codec.finishPending(d.pending, baseOffset, d.onInput, out)
	d.consumed += int64(len(d.pending))
	d.pending = nil
	return codeUnits, err
}

// Reset returns the decoder to its initial state, discarding any pending
// bytes without raising an error. For UTF16/UTF32, BOM sniffing is armed
// again so the next stream's leading bytes are re-inspected.
func (d *Decoder) Reset() {
	d.pending = nil
	d.consumed = 0
	switch d.charset {
	case UTF16, UTF32:
		d.codec = nil
		d.sniffNeeded = true
	}
}

// Close releases the decoder's internal state. The decoder is unusable
// after Close.
func (d *Decoder) Close() error {
	d.closed = true
	d.pending = nil
	return nil
}

// appendReplacement writes U+FFFD to out and returns its UTF-16 code-unit
// width (always 1).
func appendReplacement(out *strings.Builder) int {
	out.WriteRune('�')
	return 1
}
