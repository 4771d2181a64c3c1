// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package charset

import (
	"strings"
	"unicode/utf8"
)

type utf8Codec struct{}

// utf8SeqLen returns the number of bytes a UTF-8 sequence beginning with lead
// should occupy, or 0 if lead cannot start a valid sequence.
func utf8SeqLen(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

func (utf8Codec) feed(in []byte, baseOffset int64, policy MalformedInputPolicy, out *strings.Builder) (consumed, codeUnits int, err error) {
	i := 0
	for i < len(in) {
		n := utf8SeqLen(in[i])
		if n == 0 {
			u, e := reportOrReplace(UTF8, baseOffset+int64(i), "invalid lead byte", policy, out)
			if e != nil {
				return i, codeUnits, e
			}
			codeUnits += u
			i++
			continue
		}
		if i+n > len(in) {
			// Incomplete trailing sequence: a multi-byte lead followed
			// only by continuation bytes is carried over as pending
			// state; overlong and surrogate forms are detected once the
			// sequence is complete.
			if utf8ValidPrefix(in[i:]) {
				return i, codeUnits, nil
			}
			u, e := reportOrReplace(UTF8, baseOffset+int64(i), "truncated sequence", policy, out)
			if e != nil {
				return i, codeUnits, e
			}
			codeUnits += u
			i++
			continue
		}
		r, size := utf8.DecodeRune(in[i : i+n])
		if r == utf8.RuneError && size < n || isOverlongOrSurrogate(r, n) {
			u, e := reportOrReplace(UTF8, baseOffset+int64(i), "overlong or surrogate code point", policy, out)
			if e != nil {
				return i, codeUnits, e
			}
			codeUnits += u
			i++
			continue
		}
		out.WriteRune(r)
		codeUnits += utf16Width(r)
		i += n
	}
	return i, codeUnits, nil
}

func (utf8Codec) finishPending(pending []byte, baseOffset int64, policy MalformedInputPolicy, out *strings.Builder) (int, error) {
	var codeUnits int
	for i := 0; i < len(pending); i++ {
		u, err := reportOrReplace(UTF8, baseOffset+int64(i), "truncated sequence at end of stream", policy, out)
		if err != nil {
			return codeUnits, err
		}
		codeUnits += u
	}
	return codeUnits, nil
}

func utf8ValidPrefix(b []byte) bool {
	n := utf8SeqLen(b[0])
	if n == 0 || n == 1 {
		return false
	}
	for i := 1; i < len(b); i++ {
		if b[i]&0xC0 != 0x80 {
			return false
		}
	}
	return true
}

func isOverlongOrSurrogate(r rune, encodedLen int) bool {
	if r >= 0xD800 && r <= 0xDFFF {
		return true
	}
	switch encodedLen {
	case 2:
		return r < 0x80
	case 3:
		return r < 0x800
	case 4:
		return r < 0x10000 || r > 0x10FFFF
	}
	return false
}

func reportOrReplace(cs Charset, offset int64, detail string, policy MalformedInputPolicy, out *strings.Builder) (int, error) {
	if policy == Report {
		return 0, &DecodingError{Charset: cs, Offset: offset, Detail: detail}
	}
	return appendReplacement(out), nil
}
