package extrinsic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/go-substrate-client/internal/extrinsic"
)

// Round-trip property (spec §8 property 4): decoding a produced
// extrinsic yields a structure whose re-encoding equals the input bytes.
func TestRoundTripSignedV5(t *testing.T) {
	info := chainInfoForVersion(5)
	enc := extrinsic.NewEncoder(info)

	signer := make([]byte, 32)
	for i := range signer {
		signer[i] = byte(i + 1)
	}
	sig := make([]byte, 64)
	sig[63] = 0x80 // forces Sr25519 under the inference heuristic

	data := extrinsic.SignedData{
		Signer:        signer,
		Signature:     sig,
		SignatureType: extrinsic.InferSignatureType(sig),
		Extensions:    minimalExtensionValues(),
		CallData:      []byte{0xaa, 0xbb, 0xcc},
	}

	wire, err := enc.Encode(data)
	require.NoError(t, err)

	decoded, consumed, err := extrinsic.Decode(wire, info.Types, enc.Schema())
	require.NoError(t, err)
	assert.Equal(t, len(wire), consumed)

	assert.True(t, decoded.Signed)
	assert.False(t, decoded.General)
	assert.Equal(t, 5, decoded.Version)
	assert.Equal(t, signer, decoded.Signer)
	assert.Equal(t, sig, decoded.Signature)
	assert.Equal(t, extrinsic.SignatureSr25519, decoded.SignatureType)
	assert.Equal(t, data.CallData, decoded.CallData)

	reencoded, err := enc.Encode(extrinsic.SignedData{
		Signer:        decoded.Signer,
		Signature:     decoded.Signature,
		SignatureType: decoded.SignatureType,
		Extensions:    data.Extensions,
		CallData:      decoded.CallData,
	})
	require.NoError(t, err)
	assert.Equal(t, wire, reencoded)
}

func TestRoundTripBareV4(t *testing.T) {
	info := chainInfoForVersion(4)
	enc := extrinsic.NewEncoder(info)

	wire, err := enc.EncodeUnsigned([]byte{0x01, 0x02})
	require.NoError(t, err)

	decoded, consumed, err := extrinsic.Decode(wire, info.Types, enc.Schema())
	require.NoError(t, err)
	assert.Equal(t, len(wire), consumed)
	assert.False(t, decoded.Signed)
	assert.False(t, decoded.General)
	assert.Equal(t, []byte{0x01, 0x02}, decoded.CallData)
}

func TestRoundTripGeneralV5(t *testing.T) {
	info := chainInfoForVersion(5)
	enc := extrinsic.NewEncoder(info)

	wire, err := enc.EncodeGeneral([]byte{0x09, 0x08}, minimalExtensionValues(), 3)
	require.NoError(t, err)

	decoded, consumed, err := extrinsic.Decode(wire, info.Types, enc.Schema())
	require.NoError(t, err)
	assert.Equal(t, len(wire), consumed)
	assert.True(t, decoded.General)
	assert.Equal(t, byte(3), decoded.ExtensionVersion)
	assert.Equal(t, []byte{0x09, 0x08}, decoded.CallData)
}

func TestDecodeInvalidVersionByteFails(t *testing.T) {
	info := chainInfoForVersion(4)
	enc := extrinsic.NewEncoder(info)

	// compact(len=1) ‖ 0x99: 0x99 is not one of the five valid version
	// bytes (spec §4.5, §8 property 2).
	bad := []byte{byte(1 << 2), 0x99}
	_, _, err := extrinsic.Decode(bad, info.Types, enc.Schema())
	require.Error(t, err)
}
