// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream_test

import (
	"bytes"
	"compress/flate"
	"io"
	"strings"
	"testing"

	"code.hybscloud.com/bytebuf"
	"code.hybscloud.com/bytebuf/stream"
)

func deflate(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, text); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDeflateTransformInflatesAcrossFeeds(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	compressed := deflate(t, text)

	transform := stream.NewDeflateTransform(0)
	p := stream.New(stream.WithTransform(transform))

	mid := len(compressed) / 2
	if err := p.Append(bytebuf.Wrap(compressed[:mid])); err != nil {
		t.Fatal(err)
	}
	if err := p.Append(bytebuf.Wrap(compressed[mid:])); err != nil {
		t.Fatal(err)
	}
	if err := p.Finish(); err != nil {
		t.Fatal(err)
	}

	got, err := p.ReadBuffer(p.Available())
	if err != nil {
		t.Fatal(err)
	}
	s, _ := got.String(got.Remaining())
	if s != text {
		t.Fatalf("inflated output length %d, want %d (mismatch)", len(s), len(text))
	}
}
