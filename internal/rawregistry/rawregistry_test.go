package rawregistry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/go-substrate-client/internal/rawregistry"
)

func TestCodecForZeroSizedEncodesNothing(t *testing.T) {
	r := rawregistry.New(7)

	codec, err := r.CodecFor(7)
	require.NoError(t, err)
	assert.True(t, codec.IsZeroSized())

	out, err := codec.Encode([]byte{0xaa}, []byte{0xbb, 0xcc})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa}, out)
}

func TestCodecForAppendsBytesVerbatim(t *testing.T) {
	r := rawregistry.New()

	codec, err := r.CodecFor(99)
	require.NoError(t, err)
	assert.False(t, codec.IsZeroSized())

	out, err := codec.Encode(nil, []byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, out)
}

func TestCodecForEncodesFixedWidthIntegers(t *testing.T) {
	r := rawregistry.New()
	codec, err := r.CodecFor(1)
	require.NoError(t, err)

	out, err := codec.Encode(nil, uint32(0x04030201))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, out)

	out, err = codec.Encode(nil, uint64(1))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0, 0, 0, 0, 0, 0, 0}, out)
}

func TestCodecForRejectsUnsupportedType(t *testing.T) {
	r := rawregistry.New()
	codec, err := r.CodecFor(1)
	require.NoError(t, err)

	_, err = codec.Encode(nil, "not supported")
	assert.Error(t, err)
}
