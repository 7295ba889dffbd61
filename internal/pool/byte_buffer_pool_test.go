package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ByteBuffer Tests
// =============================================================================

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(4)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	_, _ = bb.Write([]byte(" world"))
	require.Equal(t, "hello world", string(bb.Bytes()))
}

func TestByteBuffer_WriteAt(t *testing.T) {
	t.Run("Patch inside written region", func(t *testing.T) {
		bb := NewByteBuffer(16)
		_, _ = bb.Write([]byte{0, 0, 0, 0, 9, 9})

		n, err := bb.WriteAt([]byte{1, 2, 3, 4}, 0)
		require.NoError(t, err)
		require.Equal(t, 4, n)
		require.Equal(t, []byte{1, 2, 3, 4, 9, 9}, bb.Bytes())
	})

	t.Run("Extends with zero fill", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.B = append(bb.B, 0xFF, 0xFF, 0xFF)

		_, err := bb.WriteAt([]byte{7}, 6)
		require.NoError(t, err)
		require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0, 0, 0, 7}, bb.Bytes())
	})

	t.Run("Negative offset", func(t *testing.T) {
		bb := NewByteBuffer(0)
		_, err := bb.WriteAt([]byte{1}, -1)
		require.Error(t, err)
	})

	t.Run("Does not disturb append position", func(t *testing.T) {
		bb := NewByteBuffer(8)
		_, _ = bb.Write([]byte{0, 0})
		_, _ = bb.WriteAt([]byte{5}, 0)
		_, _ = bb.Write([]byte{6})
		require.Equal(t, []byte{5, 0, 6}, bb.Bytes())
	})
}

func TestByteBuffer_ReadAt(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("abcdef"))

	p := make([]byte, 3)
	n, err := bb.ReadAt(p, 2)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "cde", string(p))

	n, err = bb.ReadAt(p, 4)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)

	_, err = bb.ReadAt(p, 6)
	require.ErrorIs(t, err, io.EOF)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("test data"))

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(9), n)
	require.Equal(t, "test data", buf.String())
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("Sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(100)
		bb.Grow(50)
		assert.Equal(t, 100, bb.Cap())
	})

	t.Run("Small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(10)
		bb.B = append(bb.B, make([]byte, 10)...)
		bb.Grow(1)
		assert.Equal(t, 10+HeaderBufferDefaultSize, bb.Cap())
	})

	t.Run("Large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * HeaderBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.B = bb.B[:size]
		bb.Grow(1)
		assert.Equal(t, size+size/4, bb.Cap())
	})

	t.Run("Preserves data", func(t *testing.T) {
		bb := NewByteBuffer(2)
		_, _ = bb.Write([]byte{1, 2})
		bb.Grow(HeaderBufferDefaultSize * 2)
		assert.Equal(t, []byte{1, 2}, bb.Bytes())
		assert.GreaterOrEqual(t, bb.Cap()-bb.Len(), HeaderBufferDefaultSize*2)
	})
}

// =============================================================================
// Pool Tests
// =============================================================================

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	bb.Grow(1024)
	p.Put(bb) // dropped, too large

	p.Put(nil)

	small := p.Get()
	_, _ = small.Write([]byte("x"))
	p.Put(small)
	require.Equal(t, 0, small.Len(), "Put resets the buffer")
}

func TestDefaultPools(t *testing.T) {
	hb := GetHeaderBuffer()
	require.NotNil(t, hb)
	require.Equal(t, 0, hb.Len())
	PutHeaderBuffer(hb)

	pb := GetPayloadBuffer()
	require.NotNil(t, pb)
	require.Equal(t, 0, pb.Len())
	PutPayloadBuffer(pb)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	const numGoroutines = 32
	const numIterations = 200

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for range numGoroutines {
		go func() {
			defer wg.Done()
			for range numIterations {
				bb := GetPayloadBuffer()
				_, _ = bb.Write([]byte("data"))
				assert.Equal(t, 4, bb.Len())
				PutPayloadBuffer(bb)
			}
		}()
	}

	wg.Wait()
}
