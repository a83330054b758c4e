package rlnc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GOPRO1955/kodo/field"
)

func TestDecoderStringAndDumpState(t *testing.T) {
	f, err := field.ByID(field.GF2)
	require.NoError(t, err)
	dec := newDecoder(f, 3, 1, NewDeepStorage(3, 1), Immediate)

	require.NoError(t, dec.Decode(literalPacket([]byte{0x40}, []byte{0x1C})))

	s := dec.String()
	assert.Contains(t, s, "rank=1/3")
	assert.Contains(t, s, "Immediate")

	var buf bytes.Buffer
	dec.DumpState(&buf)
	assert.True(t, strings.Contains(buf.String(), "K=3 S=1"))
}

func TestStatusAndModeStringers(t *testing.T) {
	assert.Equal(t, "Missing", Missing.String())
	assert.Equal(t, "Seen", Seen.String())
	assert.Equal(t, "Decoded", Decoded.String())
	assert.Equal(t, "Immediate", Immediate.String())
	assert.Equal(t, "Delayed", Delayed.String())
}
