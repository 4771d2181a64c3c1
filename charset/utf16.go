// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package charset

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"
)

// utf16Codec decodes UTF-16 text two bytes at a time, completing
// surrogate pairs across Decode calls via the Decoder's pending-byte
// carry-over. le selects little-endian code-unit byte order.
type utf16Codec struct {
	le bool
}

func (c utf16Codec) order() binary.ByteOrder {
	if c.le {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (c utf16Codec) charset() Charset {
	if c.le {
		return UTF16LE
	}
	return UTF16BE
}

func (c utf16Codec) feed(in []byte, baseOffset int64, policy MalformedInputPolicy, out *strings.Builder) (consumed, codeUnits int, err error) {
	order := c.order()
	i := 0
	for i+2 <= len(in) {
		u1 := order.Uint16(in[i:])
		if u1 < 0xD800 || u1 > 0xDFFF {
			out.WriteRune(rune(u1))
			codeUnits++
			i += 2
			continue
		}
		if u1 >= 0xDC00 {
			// Unpaired low surrogate.
			n, e := reportOrReplace16(c.charset(), baseOffset+int64(i), "unpaired low surrogate", policy, out)
			if e != nil {
				return i, codeUnits, e
			}
			codeUnits += n
			i += 2
			continue
		}
		if i+4 > len(in) {
			// High surrogate at the tail with no room for its low half
			// yet: carry the 2 bytes over as pending state.
			return i, codeUnits, nil
		}
		u2 := order.Uint16(in[i+2:])
		if u2 < 0xDC00 || u2 > 0xDFFF {
			n, e := reportOrReplace16(c.charset(), baseOffset+int64(i), "unpaired high surrogate", policy, out)
			if e != nil {
				return i, codeUnits, e
			}
			codeUnits += n
			i += 2
			continue
		}
		r := utf16.DecodeRune(rune(u1), rune(u2))
		out.WriteRune(r)
		codeUnits += 2
		i += 4
	}
	return i, codeUnits, nil
}

func (c utf16Codec) finishPending(pending []byte, baseOffset int64, policy MalformedInputPolicy, out *strings.Builder) (int, error) {
	if len(pending) == 0 {
		return 0, nil
	}
	return reportOrReplace16(c.charset(), baseOffset, "truncated code unit at end of stream", policy, out)
}

func reportOrReplace16(cs Charset, offset int64, detail string, policy MalformedInputPolicy, out *strings.Builder) (int, error) {
	if policy == Report {
		return 0, &DecodingError{Charset: cs, Offset: offset, Detail: detail}
	}
	return appendReplacement(out), nil
}
