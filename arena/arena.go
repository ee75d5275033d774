// Package arena implements a block-based allocator; a graph may optionally
// charge one arena block per vertex and edge node to it for accounting (the
// node structs themselves still come from the runtime allocator). It is a
// collaborator, never a dependency of the algorithm packages themselves.
package arena

import (
	"log/slog"
	"sync"

	"github.com/wyfcoding/scc/xerrors"
)

// Arena is a bump allocator over fixed-size blocks, with a free list for
// reclaimed blocks. The create/alloc/free/reset lifecycle is explicit so a
// graph can release all of its bookkeeping in one Reset instead of leaning
// on the garbage collector.
type Arena struct {
	mu         sync.Mutex
	blockSize  int
	alignment  int
	chunks     [][]byte // backing memory, grown on demand
	offset     int      // next free byte within the current chunk
	freeList   [][]byte // reclaimed blocks available for reuse
	usedSize   int64
	totalSize  int64
	chunkBytes int
}

const defaultChunkBlocks = 256

// New creates an arena handing out blocks of blockSize bytes aligned to at
// least alignment bytes. alignment must be a power of two; if it is not,
// it is rounded up to the next one.
func New(blockSize, alignment int) (*Arena, error) {
	if blockSize <= 0 {
		return nil, xerrors.ErrInvalidParameter
	}
	if alignment <= 0 {
		alignment = 8
	}
	alignment = nextPowerOfTwo(alignment)

	a := &Arena{
		blockSize:  roundUp(blockSize, alignment),
		alignment:  alignment,
		chunkBytes: roundUp(blockSize, alignment) * defaultChunkBlocks,
	}
	return a, nil
}

func nextPowerOfTwo(n int) int {
	if n&(n-1) == 0 {
		return n
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func roundUp(size, alignment int) int {
	if alignment <= 1 {
		return size
	}
	return (size + alignment - 1) &^ (alignment - 1)
}

// Alloc reserves one whole block (the block size given to New, rounded up
// to the alignment) and returns its first size bytes, aligned to at least
// the arena's alignment. It reuses a freed block before growing the
// backing storage.
func (a *Arena) Alloc(size int) ([]byte, error) {
	if a == nil {
		return nil, xerrors.ErrNullPointer
	}
	if size <= 0 || size > a.blockSize {
		return nil, xerrors.ErrInvalidParameter
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.freeList); n > 0 {
		blk := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.usedSize += int64(a.blockSize)
		return blk[:size], nil
	}

	if len(a.chunks) == 0 || a.offset+a.blockSize > len(a.chunks[len(a.chunks)-1]) {
		chunk := make([]byte, a.chunkBytes)
		a.chunks = append(a.chunks, chunk)
		a.offset = 0
		a.totalSize += int64(a.chunkBytes)
	}

	chunk := a.chunks[len(a.chunks)-1]
	blk := chunk[a.offset : a.offset+a.blockSize]
	a.offset += a.blockSize
	a.usedSize += int64(a.blockSize)
	return blk[:size], nil
}

// Free returns a block previously obtained from Alloc to the free list.
func (a *Arena) Free(blk []byte) {
	if a == nil || blk == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.freeList = append(a.freeList, blk[:cap(blk)])
	a.usedSize -= int64(a.blockSize)
	if a.usedSize < 0 {
		a.usedSize = 0
	}
}

// Reset logically wipes the arena: every previously returned pointer is
// invalid thereafter. The first backing chunk is kept for reuse; any
// further chunks are released.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.offset = 0
	a.usedSize = 0
	a.freeList = a.freeList[:0]
	if len(a.chunks) > 1 {
		a.chunks = a.chunks[:1]
	}
	a.totalSize = int64(len(a.chunks)) * int64(a.chunkBytes)
}

// Destroy releases all backing memory. The Arena must not be used again.
func (a *Arena) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chunks = nil
	a.freeList = nil
	a.usedSize = 0
	a.totalSize = 0
	slog.Debug("arena destroyed")
}

// UsedSize returns the number of bytes currently handed out (not freed).
func (a *Arena) UsedSize() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usedSize
}

// TotalSize returns the number of bytes reserved from the runtime allocator.
func (a *Arena) TotalSize() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalSize
}
