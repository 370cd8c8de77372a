package extrinsic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/go-substrate-client/internal/extrinsic"
)

// Address variant by length (spec §8 property 6).
func TestEncodeMultiAddressVariants(t *testing.T) {
	id32 := make([]byte, 32)
	encoded := extrinsic.EncodeMultiAddress(id32)
	assert.Equal(t, byte(0x00), encoded[0])
	assert.Len(t, encoded, 33)

	addr20 := make([]byte, 20)
	encoded = extrinsic.EncodeMultiAddress(addr20)
	assert.Equal(t, byte(0x04), encoded[0])
	assert.Len(t, encoded, 21)

	raw := make([]byte, 8)
	encoded = extrinsic.EncodeMultiAddress(raw)
	assert.Equal(t, byte(0x02), encoded[0])
	assert.Equal(t, byte(8<<2), encoded[1]) // compact(8) in 1-byte mode
}

func TestDecodeMultiAddressRoundTrip(t *testing.T) {
	cases := [][]byte{
		make([]byte, 32),
		make([]byte, 20),
		make([]byte, 5),
		make([]byte, 100),
	}

	for _, signer := range cases {
		for i := range signer {
			signer[i] = byte(i + 1)
		}
		encoded := extrinsic.EncodeMultiAddress(signer)
		decoded, consumed, ok := extrinsic.DecodeMultiAddress(encoded)
		require.True(t, ok)
		assert.Equal(t, len(encoded), consumed)
		assert.Equal(t, signer, decoded)
	}
}
