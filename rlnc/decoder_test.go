package rlnc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GOPRO1955/kodo/field"
)

func literalPacket(coeff, sym []byte) []byte {
	buf := make([]byte, 1+len(coeff)+len(sym))
	n := EncodeLiteralHeader(buf)
	n += copy(buf[n:], coeff)
	copy(buf[n:], sym)
	return buf
}

// TestDecodeGF2WorkedExample reproduces the design's literal K=3, GF(2)
// walkthrough: three coded packets whose packed coefficient bytes are
// 0x40, 0x60, 0xA0 over source symbols 0x0D, 0x1C, 0x06 (each a single
// byte), with coded values 0x1C, 0x11, 0x0B, decode back to the source.
func TestDecodeGF2WorkedExample(t *testing.T) {
	factory, err := NewFactory(field.GF2, 3, 1)
	require.NoError(t, err)
	dec, err := factory.NewDecoder(Immediate)
	require.NoError(t, err)

	packets := []struct{ coeff, sym byte }{
		{0x40, 0x1C},
		{0x60, 0x11},
		{0xA0, 0x0B},
	}
	for _, p := range packets {
		require.NoError(t, dec.Decode(literalPacket([]byte{p.coeff}, []byte{p.sym})))
	}

	require.True(t, dec.IsComplete())
	out := make([]byte, 3)
	require.NoError(t, dec.CopySymbols(out))
	assert.Equal(t, []byte{0x0D, 0x1C, 0x06}, out)
}

// TestDecodeDiscardsDependentPacket feeds two exact duplicates of an
// already-installed packet: neither should advance rank.
func TestDecodeDiscardsDependentPacket(t *testing.T) {
	factory, err := NewFactory(field.GF2, 3, 1)
	require.NoError(t, err)
	dec, err := factory.NewDecoder(Immediate)
	require.NoError(t, err)

	require.NoError(t, dec.Decode(literalPacket([]byte{0x40}, []byte{0x1C}))) // c=(0,1,0)
	assert.Equal(t, 1, dec.Rank())

	// exact duplicate of the same packet twice more: neither carries new
	// information, both must be silently discarded.
	require.NoError(t, dec.Decode(literalPacket([]byte{0x40}, []byte{0x1C})))
	assert.Equal(t, 1, dec.Rank())
	require.NoError(t, dec.Decode(literalPacket([]byte{0x40}, []byte{0x1C})))
	assert.Equal(t, 1, dec.Rank())
}

func TestDecodeRejectsTruncatedPacket(t *testing.T) {
	factory, err := NewFactory(field.GF2, 3, 1)
	require.NoError(t, err)
	dec, err := factory.NewDecoder(Immediate)
	require.NoError(t, err)

	err = dec.Decode([]byte{0})
	require.Error(t, err)
	var protoErr *ProtocolError
	assert.ErrorAs(t, err, &protoErr)
}

func TestCopySymbolsNotReady(t *testing.T) {
	factory, err := NewFactory(field.GF2, 3, 1)
	require.NoError(t, err)
	dec, err := factory.NewDecoder(Immediate)
	require.NoError(t, err)

	err = dec.CopySymbols(make([]byte, 3))
	assert.ErrorIs(t, err, ErrNotReady)
}

// TestDelayedMatchesImmediate feeds an identical packet stream into an
// Immediate and a Delayed decoder and checks they agree once the
// Delayed one is finalized (§8 mode equivalence property).
func TestDelayedMatchesImmediate(t *testing.T) {
	const k, s = 6, 12
	block := make([]byte, k*s)
	rng := rand.New(rand.NewSource(42))
	rng.Read(block)

	gf256, err := field.ByID(field.GF256)
	require.NoError(t, err)

	src := NewDeepStorage(k, s)
	require.NoError(t, src.SetSymbols(block))
	enc := newEncoder(gf256, k, s, src, rand.New(rand.NewSource(1)))
	enc.SetSystematicOff()

	factory, err := NewFactory(field.GF256, k, s)
	require.NoError(t, err)
	immediate, err := factory.NewDecoder(Immediate)
	require.NoError(t, err)
	delayed, err := factory.NewDecoder(Delayed)
	require.NoError(t, err)

	payloadSize := enc.PayloadSize()
	for !immediate.IsComplete() {
		buf := make([]byte, payloadSize)
		_, err := enc.Encode(buf)
		require.NoError(t, err)
		require.NoError(t, immediate.Decode(append([]byte(nil), buf...)))
		require.NoError(t, delayed.Decode(append([]byte(nil), buf...)))
	}
	delayed.Finalize()
	require.True(t, delayed.IsComplete())

	gotImmediate := make([]byte, k*s)
	require.NoError(t, immediate.CopySymbols(gotImmediate))
	gotDelayed := make([]byte, k*s)
	require.NoError(t, delayed.CopySymbols(gotDelayed))

	assert.Equal(t, block, gotImmediate)
	assert.Equal(t, gotImmediate, gotDelayed)
}

func TestDelayedNotReadyUntilFinalize(t *testing.T) {
	const k, s = 4, 4
	block := make([]byte, k*s)
	rng := rand.New(rand.NewSource(7))
	rng.Read(block)

	factory, err := NewFactory(field.GF256, k, s)
	require.NoError(t, err)

	src := NewDeepStorage(k, s)
	require.NoError(t, src.SetSymbols(block))
	f, _ := field.ByID(field.GF256)
	enc := newEncoder(f, k, s, src, rand.New(rand.NewSource(2)))
	enc.SetSystematicOff()

	dec, err := factory.NewDecoder(Delayed)
	require.NoError(t, err)

	for !dec.IsComplete() {
		buf := make([]byte, enc.PayloadSize())
		_, err := enc.Encode(buf)
		require.NoError(t, err)
		require.NoError(t, dec.Decode(buf))
	}

	err = dec.CopySymbols(make([]byte, k*s))
	assert.ErrorIs(t, err, ErrNotReady)

	dec.Finalize()
	require.NoError(t, dec.CopySymbols(make([]byte, k*s)))
}
