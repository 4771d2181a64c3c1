// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"

	"code.hybscloud.com/bytebuf"
)

// DeflateTransform is a Transform that inflates DEFLATE-compressed input,
// built on klauspost/compress/flate. Feed and Finish chunk size is
// bounded by chunkSize.
type DeflateTransform struct {
	fr        io.ReadCloser
	pending   *bytes.Buffer
	chunkSize int
}

// NewDeflateTransform constructs a DeflateTransform. chunkSize controls
// the size of Buffers emitted by Feed/Finish; a non-positive value
// defaults to bytebuf.BufferSizeMedium.
func NewDeflateTransform(chunkSize int) *DeflateTransform {
	if chunkSize <= 0 {
		chunkSize = bytebuf.BufferSizeMedium
	}
	pending := new(bytes.Buffer)
	return &DeflateTransform{
		pending:   pending,
		chunkSize: chunkSize,
		fr:        flate.NewReader(pending),
	}
}

// Feed appends chunk to the transform's compressed-input buffer and
// drains as much inflated output as is currently available.
func (t *DeflateTransform) Feed(chunk []byte) ([]*bytebuf.Buffer, error) {
	t.pending.Write(chunk)
	return t.drain()
}

// Finish closes the underlying flate reader and drains any remaining
// inflated output.
func (t *DeflateTransform) Finish() ([]*bytebuf.Buffer, error) {
	outputs, err := t.drain()
	if err != nil {
		return outputs, err
	}
	_ = t.fr.Close()
	return outputs, nil
}

func (t *DeflateTransform) drain() ([]*bytebuf.Buffer, error) {
	var outputs []*bytebuf.Buffer
	buf := make([]byte, t.chunkSize)
	for {
		n, err := t.fr.Read(buf)
		if n > 0 {
			out := bytebuf.New(n)
			_ = out.WriteBytes(buf, 0, n)
			out.ResetForRead()
			outputs = append(outputs, out)
		}
		if err == io.EOF {
			return outputs, nil
		}
		if err != nil {
			if err == io.ErrUnexpectedEOF || err.Error() == "unexpected EOF" {
				// flate.Reader needs more compressed input before it
				// can produce more output; this is not a stream error.
				return outputs, nil
			}
			return outputs, err
		}
		if n == 0 {
			return outputs, nil
		}
	}
}
