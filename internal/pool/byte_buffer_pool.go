package pool

import (
	"io"
	"sync"
)

// Default sizes and retention thresholds for the package level pools.
const (
	StagingBufferDefaultSize  = 1024 * 64       // 64KiB, bit writer staging buffer
	StagingBufferMaxThreshold = 1024 * 1024     // 1MiB
	PendingBufferDefaultSize  = 1024 * 16       // 16KiB, compression engine pending output
	PendingBufferMaxThreshold = 1024 * 1024     // 1MiB
	SinkBufferDefaultSize     = 1024 * 16       // 16KiB, growable sink
	SinkBufferMaxThreshold    = 1024 * 1024 * 8 // 8MiB
)

type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps the allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow ensures the buffer can take requiredBytes more bytes without reallocating.
//
// Small buffers grow by SinkBufferDefaultSize; buffers above four times that
// grow by 25% of their capacity, or by requiredBytes when that is larger.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := SinkBufferDefaultSize
	if cap(bb.B) > 4*SinkBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer, growing it as needed. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// WriteByte appends a single byte to the buffer.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool of ByteBuffers.
//
// Buffers whose capacity exceeds maxThreshold are dropped on Put instead of
// being retained, so one oversized stream does not pin memory forever.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool handing out buffers of defaultSize capacity.
// A maxThreshold of zero retains every buffer.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	stagingPool = NewByteBufferPool(StagingBufferDefaultSize, StagingBufferMaxThreshold)
	pendingPool = NewByteBufferPool(PendingBufferDefaultSize, PendingBufferMaxThreshold)
	sinkPool    = NewByteBufferPool(SinkBufferDefaultSize, SinkBufferMaxThreshold)
)

// GetStagingBuffer retrieves a buffer from the bit writer staging pool.
func GetStagingBuffer() *ByteBuffer {
	return stagingPool.Get()
}

// PutStagingBuffer returns a buffer to the bit writer staging pool.
func PutStagingBuffer(bb *ByteBuffer) {
	stagingPool.Put(bb)
}

// GetPendingBuffer retrieves a buffer from the compression pending-output pool.
func GetPendingBuffer() *ByteBuffer {
	return pendingPool.Get()
}

// PutPendingBuffer returns a buffer to the compression pending-output pool.
func PutPendingBuffer(bb *ByteBuffer) {
	pendingPool.Put(bb)
}

// GetSinkBuffer retrieves a buffer from the growable sink pool.
func GetSinkBuffer() *ByteBuffer {
	return sinkPool.Get()
}

// PutSinkBuffer returns a buffer to the growable sink pool.
func PutSinkBuffer(bb *ByteBuffer) {
	sinkPool.Put(bb)
}
