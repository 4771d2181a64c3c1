// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package charset

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"code.hybscloud.com/bytebuf"
)

// Encode returns text encoded as cs. It fails with *EncodingError at the
// first rune cs cannot represent: ASCII rejects anything above U+007F,
// Latin1 anything above U+00FF. UTF-8/UTF-16/UTF-32 can represent any
// valid rune and never fail. Generic UTF16/UTF32 encode big-endian with
// no byte-order mark; use UTF16LE/UTF32LE for a little-endian mark-free
// stream.
func Encode(text string, cs Charset) ([]byte, error) {
	switch cs {
	case UTF8:
		return []byte(text), nil
	case UTF16, UTF16BE:
		return encodeUTF16(text, binary.BigEndian), nil
	case UTF16LE:
		return encodeUTF16(text, binary.LittleEndian), nil
	case UTF32, UTF32BE:
		return encodeUTF32(text, binary.BigEndian), nil
	case UTF32LE:
		return encodeUTF32(text, binary.LittleEndian), nil
	case ASCII:
		return encodeSingleByte(text, cs, 0x7F)
	case Latin1:
		return encodeSingleByte(text, cs, 0xFF)
	default:
		panic("charset: unsupported charset")
	}
}

func encodeUTF16(text string, order binary.ByteOrder) []byte {
	out := make([]byte, 0, len(text)*2)
	buf := make([]byte, 2)
	for _, r := range text {
		for _, u := range utf16.Encode([]rune{r}) {
			order.PutUint16(buf, u)
			out = append(out, buf...)
		}
	}
	return out
}

func encodeUTF32(text string, order binary.ByteOrder) []byte {
	out := make([]byte, 0, len(text)*4)
	buf := make([]byte, 4)
	for _, r := range text {
		order.PutUint32(buf, uint32(r))
		out = append(out, buf...)
	}
	return out
}

func encodeSingleByte(text string, cs Charset, max rune) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if r > max {
			return nil, &EncodingError{Charset: cs, Rune: r}
		}
		out = append(out, byte(r))
	}
	return out, nil
}

// ReadString consumes exactly length bytes from buf, decodes them as cs
// applying policy to any malformed sequence, and advances buf's position
// by length. It is the charset-aware counterpart to (*bytebuf.Buffer).String,
// which is fixed to UTF-8 with no malformed-input reporting. ReadString
// lives here rather than on Buffer itself because it delegates to Decoder,
// and Decoder already depends on *bytebuf.Buffer.
func ReadString(buf *bytebuf.Buffer, length int, cs Charset, policy MalformedInputPolicy) (string, error) {
	if length < 0 || length > buf.Remaining() {
		return "", bytebuf.ErrBufferUnderflow
	}
	region := bytebuf.Wrap(buf.ReadableBytes()[:length])

	d := NewDecoder(cs, WithMalformedInputPolicy(policy))
	var out strings.Builder
	if _, err := d.Decode(region, &out); err != nil {
		return "", err
	}
	if _, err := d.Finish(&out); err != nil {
		return "", err
	}
	_ = buf.SetPosition(buf.Position() + length)
	return out.String(), nil
}

// WriteString encodes text as cs and writes it to buf, advancing buf's
// position by the number of bytes written. Fails with ErrBufferOverflow
// if the encoded length exceeds buf's remaining space, or *EncodingError
// if text contains a rune cs cannot represent; buf is left unchanged on
// either failure.
func WriteString(buf *bytebuf.Buffer, text string, cs Charset) error {
	encoded, err := Encode(text, cs)
	if err != nil {
		return err
	}
	return buf.WriteBytes(encoded, 0, len(encoded))
}
