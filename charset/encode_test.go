// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package charset_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/bytebuf"
	"code.hybscloud.com/bytebuf/charset"
)

func TestReadStringDelegatesToDecoder(t *testing.T) {
	// "hi" followed by U+1F389 ("🎉"), all as UTF-16BE.
	b := bytebuf.Wrap([]byte{0x00, 'h', 0x00, 'i', 0xD8, 0x3C, 0xDF, 0x89})
	got, err := charset.ReadString(b, 8, charset.UTF16BE, charset.Replace)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hi🎉" {
		t.Fatalf("ReadString = %q, want %q", got, "hi🎉")
	}
	if b.Position() != 8 {
		t.Fatalf("Position after ReadString = %d, want 8", b.Position())
	}
}

func TestReadStringReportsMalformedInput(t *testing.T) {
	b := bytebuf.Wrap([]byte{0xFF, 'a'})
	_, err := charset.ReadString(b, 2, charset.UTF8, charset.Report)
	var decErr *charset.DecodingError
	if !errors.As(err, &decErr) {
		t.Fatalf("ReadString err = %v, want *DecodingError", err)
	}
}

func TestWriteStringRoundTrip(t *testing.T) {
	b := bytebuf.New(16)
	if err := charset.WriteString(b, "A", charset.UTF16LE); err != nil {
		t.Fatal(err)
	}
	b.ResetForRead()
	got, err := charset.ReadString(b, 2, charset.UTF16LE, charset.Replace)
	if err != nil {
		t.Fatal(err)
	}
	if got != "A" {
		t.Fatalf("round trip = %q, want %q", got, "A")
	}
}

func TestWriteStringRejectsUnencodableRune(t *testing.T) {
	b := bytebuf.New(16)
	err := charset.WriteString(b, "é", charset.ASCII)
	var encErr *charset.EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("WriteString err = %v, want *EncodingError", err)
	}
	if b.Position() != 0 {
		t.Fatalf("Position after failed WriteString = %d, want 0 (unchanged)", b.Position())
	}
}

func TestWriteStringOverflowLeavesBufferUnchanged(t *testing.T) {
	b := bytebuf.New(1)
	err := charset.WriteString(b, "hi", charset.UTF8)
	if !errors.Is(err, bytebuf.ErrBufferOverflow) {
		t.Fatalf("WriteString err = %v, want ErrBufferOverflow", err)
	}
	if b.Position() != 0 {
		t.Fatalf("Position after overflow = %d, want 0", b.Position())
	}
}
