// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package charset

import (
	"encoding/binary"
	"strings"
)

// utf32Codec decodes UTF-32 text four bytes at a time; up to 3 trailing
// bytes are carried over as pending state when a code unit straddles a
// Decode boundary.
type utf32Codec struct {
	le bool
}

func (c utf32Codec) order() binary.ByteOrder {
	if c.le {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (c utf32Codec) charset() Charset {
	if c.le {
		return UTF32LE
	}
	return UTF32BE
}

func (c utf32Codec) feed(in []byte, baseOffset int64, policy MalformedInputPolicy, out *strings.Builder) (consumed, codeUnits int, err error) {
	order := c.order()
	i := 0
	for i+4 <= len(in) {
		v := order.Uint32(in[i:])
		r := rune(v)
		if v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
			n, e := reportOrReplace32(c.charset(), baseOffset+int64(i), "code point out of range", policy, out)
			if e != nil {
				return i, codeUnits, e
			}
			codeUnits += n
			i += 4
			continue
		}
		out.WriteRune(r)
		codeUnits += utf16Width(r)
		i += 4
	}
	return i, codeUnits, nil
}

func (c utf32Codec) finishPending(pending []byte, baseOffset int64, policy MalformedInputPolicy, out *strings.Builder) (int, error) {
	if len(pending) == 0 {
		return 0, nil
	}
	return reportOrReplace32(c.charset(), baseOffset, "truncated code unit at end of stream", policy, out)
}

func reportOrReplace32(cs Charset, offset int64, detail string, policy MalformedInputPolicy, out *strings.Builder) (int, error) {
	if policy == Report {
		return 0, &DecodingError{Charset: cs, Offset: offset, Detail: detail}
	}
	return appendReplacement(out), nil
}
