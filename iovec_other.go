// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package bytebuf

import (
	"os"
)

// WritevFile is unavailable outside unix; callers should fall back to
// sequential Write calls or net.Buffers.WriteTo.
func WritevFile(f *os.File, vecs []IoVec) (int64, error) {
	return 0, ErrWritevUnsupported
}
