// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package bytebuf

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// WritevFile performs a single vectored writev(2) of vecs to f's
// underlying file descriptor, matching the readv/writev/preadv/pwritev
// family IoVec documents itself as compatible with.
func WritevFile(f *os.File, vecs []IoVec) (int64, error) {
	if len(vecs) == 0 {
		return 0, nil
	}
	iovs := make([][]byte, len(vecs))
	for i, v := range vecs {
		iovs[i] = unsafe.Slice(v.Base, v.Len)
	}
	conn, err := f.SyscallConn()
	if err != nil {
		return 0, err
	}
	var n uintptr
	var writeErr error
	err = conn.Write(func(fd uintptr) bool {
		n, writeErr = unix.Writev(int(fd), iovs)
		return writeErr != unix.EAGAIN
	})
	if err != nil {
		return int64(n), err
	}
	return int64(n), writeErr
}
