// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytebuf_test

import (
	"testing"
	"unsafe"

	"code.hybscloud.com/bytebuf"
)

const registerBufferSize = bytebuf.BufferSizeLarge

func TestIoVecFromBytesSlice(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		addr, n := bytebuf.IoVecFromBytesSlice(nil)
		if addr != 0 || n != 0 {
			t.Errorf("expected (0, 0), got (%d, %d)", addr, n)
		}
	})

	t.Run("single buffer", func(t *testing.T) {
		buf := make([]byte, 128)
		buf[0] = 0xAB
		iov := [][]byte{buf}
		addr, n := bytebuf.IoVecFromBytesSlice(iov)
		if n != 1 {
			t.Errorf("expected n=1, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
	})

	t.Run("multiple buffers", func(t *testing.T) {
		bufs := [][]byte{
			make([]byte, 64),
			make([]byte, 128),
			make([]byte, 256),
		}
		addr, n := bytebuf.IoVecFromBytesSlice(bufs)
		if n != 3 {
			t.Errorf("expected n=3, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
	})
}

func TestIoVecAddrLen(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		addr, n := bytebuf.IoVecAddrLen(nil)
		if addr != 0 || n != 0 {
			t.Errorf("expected (0, 0), got (%d, %d)", addr, n)
		}
	})

	t.Run("non-empty slice", func(t *testing.T) {
		vec := make([]bytebuf.IoVec, 4)
		addr, n := bytebuf.IoVecAddrLen(vec)
		if n != 4 {
			t.Errorf("expected n=4, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
		expectedAddr := uintptr(unsafe.Pointer(&vec[0]))
		if addr != expectedAddr {
			t.Errorf("expected addr=%d, got %d", expectedAddr, addr)
		}
	})
}

func TestIoVecFromPicoBuffers(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		vec := bytebuf.IoVecFromPicoBuffers(nil)
		if vec != nil {
			t.Error("expected nil for empty input")
		}
	})

	t.Run("pointer and length correctness", func(t *testing.T) {
		buffers := make([]bytebuf.PicoBuffer, 4)
		buffers[0][0] = 0xDE
		buffers[1][0] = 0xAD
		vec := bytebuf.IoVecFromPicoBuffers(buffers)
		if len(vec) != 4 {
			t.Errorf("expected len=4, got %d", len(vec))
		}
		for i, v := range vec {
			if v.Len != bytebuf.BufferSizePico {
				t.Errorf("vec[%d].Len = %d, expected %d", i, v.Len, bytebuf.BufferSizePico)
			}
			expectedBase := (*byte)(unsafe.Pointer(&buffers[i]))
			if v.Base != expectedBase {
				t.Errorf("vec[%d].Base mismatch", i)
			}
		}
	})
}

func TestIoVecFromNanoBuffers(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		vec := bytebuf.IoVecFromNanoBuffers(nil)
		if vec != nil {
			t.Error("expected nil for empty input")
		}
	})

	t.Run("non-empty", func(t *testing.T) {
		buffers := make([]bytebuf.NanoBuffer, 2)
		vec := bytebuf.IoVecFromNanoBuffers(buffers)
		if len(vec) != 2 {
			t.Errorf("expected len=2, got %d", len(vec))
		}
		for i, v := range vec {
			if v.Len != bytebuf.BufferSizeNano {
				t.Errorf("vec[%d].Len = %d, expected %d", i, v.Len, bytebuf.BufferSizeNano)
			}
		}
	})
}

func TestIoVecFromMicroBuffers(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		vec := bytebuf.IoVecFromMicroBuffers(nil)
		if vec != nil {
			t.Error("expected nil for empty input")
		}
	})

	t.Run("non-empty", func(t *testing.T) {
		buffers := make([]bytebuf.MicroBuffer, 2)
		vec := bytebuf.IoVecFromMicroBuffers(buffers)
		if len(vec) != 2 {
			t.Errorf("expected len=2, got %d", len(vec))
		}
		for i, v := range vec {
			if v.Len != bytebuf.BufferSizeMicro {
				t.Errorf("vec[%d].Len = %d, expected %d", i, v.Len, bytebuf.BufferSizeMicro)
			}
		}
	})
}

func TestIoVecFromSmallBuffers(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		vec := bytebuf.IoVecFromSmallBuffers(nil)
		if vec != nil {
			t.Error("expected nil for empty input")
		}
	})

	t.Run("non-empty", func(t *testing.T) {
		buffers := make([]bytebuf.SmallBuffer, 2)
		vec := bytebuf.IoVecFromSmallBuffers(buffers)
		if len(vec) != 2 {
			t.Errorf("expected len=2, got %d", len(vec))
		}
		for i, v := range vec {
			if v.Len != bytebuf.BufferSizeSmall {
				t.Errorf("vec[%d].Len = %d, expected %d", i, v.Len, bytebuf.BufferSizeSmall)
			}
		}
	})
}

func TestIoVecFromMediumBuffers(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		vec := bytebuf.IoVecFromMediumBuffers(nil)
		if vec != nil {
			t.Error("expected nil for empty input")
		}
	})

	t.Run("non-empty", func(t *testing.T) {
		buffers := make([]bytebuf.MediumBuffer, 2)
		vec := bytebuf.IoVecFromMediumBuffers(buffers)
		if len(vec) != 2 {
			t.Errorf("expected len=2, got %d", len(vec))
		}
		for i, v := range vec {
			if v.Len != bytebuf.BufferSizeMedium {
				t.Errorf("vec[%d].Len = %d, expected %d", i, v.Len, bytebuf.BufferSizeMedium)
			}
		}
	})
}

func TestIoVecFromLargeBuffers(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		vec := bytebuf.IoVecFromLargeBuffers(nil)
		if vec != nil {
			t.Error("expected nil for empty input")
		}
	})

	t.Run("non-empty", func(t *testing.T) {
		buffers := make([]bytebuf.LargeBuffer, 2)
		vec := bytebuf.IoVecFromLargeBuffers(buffers)
		if len(vec) != 2 {
			t.Errorf("expected len=2, got %d", len(vec))
		}
		for i, v := range vec {
			if v.Len != bytebuf.BufferSizeLarge {
				t.Errorf("vec[%d].Len = %d, expected %d", i, v.Len, bytebuf.BufferSizeLarge)
			}
		}
	})
}

func TestIoVecFromHugeBuffers(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		vec := bytebuf.IoVecFromHugeBuffers(nil)
		if vec != nil {
			t.Error("expected nil for empty input")
		}
	})

	t.Run("non-empty", func(t *testing.T) {
		buffers := make([]bytebuf.HugeBuffer, 2)
		vec := bytebuf.IoVecFromHugeBuffers(buffers)
		if len(vec) != 2 {
			t.Errorf("expected len=2, got %d", len(vec))
		}
		for i, v := range vec {
			if v.Len != bytebuf.BufferSizeHuge {
				t.Errorf("vec[%d].Len = %d, expected %d", i, v.Len, bytebuf.BufferSizeHuge)
			}
		}
	})
}

func TestIoVecFromGiantBuffers(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		vec := bytebuf.IoVecFromGiantBuffers(nil)
		if vec != nil {
			t.Error("expected nil for empty input")
		}
	})

	t.Run("non-empty", func(t *testing.T) {
		buffers := make([]bytebuf.GiantBuffer, 2)
		vec := bytebuf.IoVecFromGiantBuffers(buffers)
		if len(vec) != 2 {
			t.Errorf("expected len=2, got %d", len(vec))
		}
		for i, v := range vec {
			if v.Len != bytebuf.BufferSizeGiant {
				t.Errorf("vec[%d].Len = %d, expected %d", i, v.Len, bytebuf.BufferSizeGiant)
			}
		}
	})
}

func TestIoVecFromRegisteredBuffers(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		vec := bytebuf.IoVecFromRegisteredBuffers(nil)
		if vec != nil {
			t.Error("expected nil for empty input")
		}
	})

	t.Run("pointer and length correctness", func(t *testing.T) {
		buffers := make([]bytebuf.RegisterBuffer, 2)
		vec := bytebuf.IoVecFromRegisteredBuffers(buffers)
		if len(vec) != 2 {
			t.Errorf("expected len=2, got %d", len(vec))
		}
		for i, v := range vec {
			if v.Len != registerBufferSize {
				t.Errorf("vec[%d].Len = %d, expected %d", i, v.Len, registerBufferSize)
			}
			expectedBase := (*byte)(unsafe.Pointer(&buffers[i]))
			if v.Base != expectedBase {
				t.Errorf("vec[%d].Base mismatch", i)
			}
		}
	})
}

func TestIoVecPointerStability(t *testing.T) {
	buffers := make([]bytebuf.PicoBuffer, 4)
	buffers[0][0] = 0x11
	buffers[1][0] = 0x22
	buffers[2][0] = 0x33
	buffers[3][0] = 0x44

	vec := bytebuf.IoVecFromPicoBuffers(buffers)

	for i := range vec {
		ptr := unsafe.Pointer(vec[i].Base)
		val := *(*byte)(ptr)
		expected := byte((i + 1) * 0x11)
		if val != expected {
			t.Errorf("vec[%d] points to value 0x%02X, expected 0x%02X", i, val, expected)
		}
	}
}
