package blob

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/enginecore/arena"
	"github.com/hupe1980/enginecore/xform"
)

type spawnRecord struct {
	Position xform.Vec3
	Kind     uint32
	Mesh     uint32
}

func testRecords(n int) []spawnRecord {
	out := make([]spawnRecord, n)
	for i := range out {
		out[i] = spawnRecord{
			Position: xform.Vec3{X: float32(i % 16), Y: 1, Z: float32(i / 16)},
			Kind:     uint32(i % 3),
			Mesh:     7,
		}
	}
	return out
}

func newTestArena(t *testing.T) *arena.Arena {
	t.Helper()
	a, err := arena.New(4<<20, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Release() })
	return a
}

func TestRoundTrip(t *testing.T) {
	want := testRecords(1000)

	for _, codec := range []Codec{None, LZ4, Zstd, Snappy} {
		t.Run(codec.String(), func(t *testing.T) {
			data, err := Encode(want, codec)
			require.NoError(t, err)

			r, err := Open(data)
			require.NoError(t, err)

			h := r.Header()
			assert.Equal(t, codec, h.Codec)
			assert.Equal(t, uint32(len(want)), h.Count)
			assert.Equal(t, uint32(20), h.RecordSize)
			assert.Equal(t, len(data), h.Size())
			if codec != None {
				assert.Less(t, h.StoredLen, h.RawLen)
			}

			a := newTestArena(t)
			got, err := Records[spawnRecord](r, a)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.True(t, a.Contains(arena.BytesOf(got)))

			heap, err := Records[spawnRecord](r, nil)
			require.NoError(t, err)
			assert.Equal(t, want, heap)
		})
	}
}

func TestWrite_IncompressibleFallsBackToNone(t *testing.T) {
	raw := make([]byte, 64)
	for i := range raw {
		raw[i] = byte(i*151 + 7)
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, raw, 1, Zstd))

	r, err := Open(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, None, r.Header().Codec)

	payload, err := r.Payload(nil)
	require.NoError(t, err)
	assert.Equal(t, raw, payload)
}

func TestWrite_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, make([]byte, 10), 3, None), ErrRecordSize)
	assert.ErrorIs(t, Write(&buf, make([]byte, 10), 0, None), ErrRecordSize)
	assert.ErrorIs(t, Write(&buf, nil, 4, Codec(99)), ErrCodec)

	_, err := Encode([]string{"x"}, None)
	assert.ErrorIs(t, err, arena.ErrPointerType)
	_, err = Encode([]struct{}{{}}, None)
	assert.ErrorIs(t, err, ErrRecordSize)
}

func TestEmptyBlob(t *testing.T) {
	data, err := Encode[uint64](nil, LZ4)
	require.NoError(t, err)
	require.Len(t, data, HeaderSize)

	r, err := Open(data)
	require.NoError(t, err)
	recs, err := Records[uint64](r, newTestArena(t))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestOpen_Rejects(t *testing.T) {
	good, err := Encode(testRecords(64), Snappy)
	require.NoError(t, err)

	corrupt := func(fn func(b []byte) []byte) []byte {
		return fn(bytes.Clone(good))
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", good[:HeaderSize-1], ErrTruncated},
		{"bad magic", corrupt(func(b []byte) []byte { b[0] = 'X'; return b }), ErrBadMagic},
		{"zero version", corrupt(func(b []byte) []byte { binary.LittleEndian.PutUint16(b[4:], 0); return b }), ErrVersion},
		{"future version", corrupt(func(b []byte) []byte { binary.LittleEndian.PutUint16(b[4:], Version+1); return b }), ErrVersion},
		{"unknown codec", corrupt(func(b []byte) []byte { b[6] = 42; return b }), ErrCodec},
		{"count overflow", corrupt(func(b []byte) []byte { binary.LittleEndian.PutUint32(b[12:], 1<<31); return b }), ErrRecordSize},
		{"truncated payload", good[:len(good)-1], ErrTruncated},
		{"payload bit flip", corrupt(func(b []byte) []byte { b[HeaderSize+3] ^= 0x10; return b }), ErrChecksum},
		{"header bit flip", corrupt(func(b []byte) []byte { b[7] ^= 1; return b }), ErrChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOpen_TrailingData(t *testing.T) {
	first, err := Encode([]uint32{1, 2, 3}, None)
	require.NoError(t, err)
	second, err := Encode([]uint32{4}, None)
	require.NoError(t, err)

	stream := append(bytes.Clone(first), second...)
	r, err := Open(stream)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), r.Header().Count)

	r2, err := Open(stream[r.Header().Size():])
	require.NoError(t, err)
	got, err := Records[uint32](r2, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{4}, got)
}

func TestRecords_TypeMismatch(t *testing.T) {
	data, err := Encode([]uint32{1, 2}, None)
	require.NoError(t, err)
	r, err := Open(data)
	require.NoError(t, err)

	_, err = Records[uint64](r, nil)
	assert.ErrorIs(t, err, ErrRecordSize)
	_, err = Records[*int](r, nil)
	assert.ErrorIs(t, err, arena.ErrPointerType)
}

func TestPayload_ArenaTooSmall(t *testing.T) {
	data, err := Encode(make([]uint64, 1<<16), Zstd)
	require.NoError(t, err)
	r, err := Open(data)
	require.NoError(t, err)

	a, err := arena.New(64<<10, 0)
	require.NoError(t, err)
	defer a.Release()

	_, err = r.Payload(a)
	assert.ErrorIs(t, err, arena.ErrExhausted)
}

func TestParseCodec(t *testing.T) {
	for _, c := range []Codec{None, LZ4, Zstd, Snappy} {
		got, err := ParseCodec(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCodec("brotli")
	assert.ErrorIs(t, err, ErrCodec)
	assert.Equal(t, "codec(9)", Codec(9).String())
}
