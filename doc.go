// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bytebuf provides a cursor-based byte buffer, a tiered object pool
// for buffer reuse, and the supporting memory-alignment and vectored-I/O
// primitives that back them.
//
// # Buffer
//
// Buffer wraps a byte slice with a position/limit/capacity cursor, the same
// relative-read/relative-write model as java.nio.ByteBuffer: reads and
// writes advance an internal position and are bounds-checked against a
// limit, while absolute accessors take an explicit index and leave the
// cursor untouched.
//
//	b := bytebuf.New(256)
//	b.WriteUint32(0xdeadbeef)
//	b.WriteString("hello")
//	b.ResetForRead()
//	v, _ := b.ReadUint32()
//	s, _ := b.String(5)
//
// Buffer's multi-byte accessors dispatch through encoding/binary.ByteOrder,
// so a single code path serves both endiannesses; the default order is
// binary.BigEndian and can be changed with SetOrder. Slice carves out a
// sub-buffer that shares the parent's backing array, matching how Go slices
// already alias: writes through either buffer are visible in both.
//
// # Pool
//
// Pool buckets released buffers into the 12-tier size-class hierarchy
// below, handing Acquire callers the smallest tier that satisfies the
// requested size instead of allocating fresh backing storage on every
// call:
//
//	Tier      Size       Use Case
//	────      ────       ────────
//	Pico      32 B       Tiny metadata, flags
//	Nano      128 B      Small headers, control frames
//	Micro     512 B      Protocol frames, small messages
//	Small     2 KiB      Typical network packets
//	Medium    8 KiB      Stream buffers, large packets
//	Big       32 KiB     TLS records, stream chunks
//	Large     128 KiB    Bulk transfer buffers
//	Great     512 KiB    Large transfers
//	Huge      2 MiB      Huge page aligned buffers
//	Vast      8 MiB      Large file chunks
//	Giant     32 MiB     Video frames, datasets
//	Titan     128 MiB    Maximum allocation tier
//
// A Pool runs in one of two concurrency modes. SingleThreaded keeps a plain
// unsynchronized freelist per tier and is for buffers confined to one
// goroutine. MultiThreaded guards each tier's freelist with a mutex and
// backs its Hits/Misses/PeakPoolSize/CurrentPoolSize counters with xsync's
// sharded Counter, so Acquire/Release/Stats are safe to call from many
// goroutines.
//
//	p := bytebuf.NewPool(bytebuf.MultiThreaded)
//	buf := p.Acquire(4096)
//	defer p.Release(buf)
//
// # Bounded Pool
//
// BoundedPool is a lock-free multi-producer multi-consumer (MPMC) ring,
// based on the algorithm from "A Scalable, Portable, and Memory-Efficient
// Lock-Free FIFO Queue" (Ruslan Nikolaev, 2019). It backs the tiered
// XxxBufferPool aliases (pool.go) over the fixed-array buffer types below;
// the main Pool type's MultiThreaded mode uses a simpler mutex-guarded
// freelist instead, since it hands out *Buffer values of varying length
// within a tier rather than fixed-size array values:
//
//   - Lock-free: uses atomic CAS operations, no mutexes
//   - Bounded: fixed capacity rounded to the next power of two
//   - Memory-efficient: a single contiguous array, no per-element allocation
//   - Cache-optimized: entries are spread across cache lines to reduce
//     false sharing between concurrent producers and consumers
//
// # Indirect Pool Pattern
//
// The tiered BoundedPool instances store indices (int) rather than buffer
// values directly. This enables:
//
//   - Zero-copy access via Value(indirect) method
//   - Efficient pool operations without moving large buffers
//   - Clear ownership semantics through index hand-off
//
// # Page-Aligned and Cache-Line-Aligned Memory
//
// Large pool tiers back their buffers with page- or cache-line-aligned
// allocations to keep bulk transfers and concurrent counters free of false
// sharing:
//
//	mem := bytebuf.AlignedMem(4096, bytebuf.PageSize)
//	block := bytebuf.AlignedMemBlock()
//	blocks := bytebuf.CacheLineAlignedMemBlocks(16, 64)
//
// # Vectored I/O
//
// IoVec provides scatter/gather I/O support for readv/writev syscalls, and
// the stream subpackage's WriteVectored builds on net.Buffers for the same
// purpose at a higher level:
//
//	buffers := make([]bytebuf.SmallBuffer, 8)
//	iovecs := bytebuf.IoVecFromSmallBuffers(buffers)
//	addr, n := bytebuf.IoVecAddrLen(iovecs)
//
// # Architecture Requirements
//
// This package requires a 64-bit CPU architecture (amd64, arm64, riscv64,
// loong64, ppc64, ppc64le, s390x, mips64, mips64le). 32-bit architectures
// are not supported due to the 64-bit atomic operations in BoundedPool.
//
// # Thread Safety
//
// Buffer is not safe for concurrent use; callers that share a Buffer across
// goroutines must provide their own synchronization. BoundedPool and a
// MultiThreaded Pool support multiple concurrent producers and consumers
// without external synchronization.
//
// # Subpackages
//
// bytebuf/stream builds incremental, chunk-boundary-agnostic parsing on top
// of Buffer and Pool. bytebuf/charset builds streaming text decoding on top
// of the same two types.
package bytebuf
