// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package charset

import "strings"

// asciiCodec decodes 7-bit ASCII; bytes >= 0x80 are malformed. ASCII has
// no pending state: every byte is a complete code unit.
type asciiCodec struct{}

func (asciiCodec) feed(in []byte, baseOffset int64, policy MalformedInputPolicy, out *strings.Builder) (consumed, codeUnits int, err error) {
	for i, c := range in {
		if c >= 0x80 {
			n, e := reportOrReplace(ASCII, baseOffset+int64(i), "byte >= 0x80 in ASCII", policy, out)
			if e != nil {
				return i, codeUnits, e
			}
			codeUnits += n
			continue
		}
		out.WriteByte(c)
		codeUnits++
	}
	return len(in), codeUnits, nil
}

func (asciiCodec) finishPending([]byte, int64, MalformedInputPolicy, *strings.Builder) (int, error) {
	return 0, nil
}

// latin1Codec decodes ISO-8859-1, where every byte maps directly to
// U+00XX. Latin1 has no pending state.
type latin1Codec struct{}

func (latin1Codec) feed(in []byte, baseOffset int64, policy MalformedInputPolicy, out *strings.Builder) (consumed, codeUnits int, err error) {
	for _, c := range in {
		out.WriteRune(rune(c))
		codeUnits++
	}
	return len(in), codeUnits, nil
}

func (latin1Codec) finishPending([]byte, int64, MalformedInputPolicy, *strings.Builder) (int, error) {
	return 0, nil
}
