package extrinsic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/go-substrate-client/internal/chaindata"
	"github.com/chapool/go-substrate-client/internal/extrinsic"
)

func testChainData() chaindata.ChainData {
	return chaindata.ChainData{
		GenesisHash:        []byte{0xaa, 0xaa, 0xaa, 0xaa},
		BlockHash:          []byte{0xbb, 0xbb, 0xbb, 0xbb},
		BlockNumber:        1000,
		SpecVersion:        100,
		TransactionVersion: 5,
		Nonce:              42,
	}
}

func TestSetStandardExtensionsSatisfiesValidate(t *testing.T) {
	info := chainInfoForVersion(4)
	b := extrinsic.NewExtensionBuilder(info.Types, extrinsic.NewSchema(info))

	b.SetStandardExtensions(testChainData(), 64, 1000)

	assert.NoError(t, b.Validate())

	values := b.Values()
	assert.Equal(t, uint32(100), values.AdditionalSigned["CheckSpecVersion"])
	assert.Equal(t, uint64(42), values.Extensions["CheckNonce"])
	assert.Equal(t, uint64(1000), values.Extensions["ChargeTransactionPayment"])
}

func TestSetStandardExtensionsImmortalUsesGenesisAsCheckpoint(t *testing.T) {
	info := chainInfoForVersion(4)
	b := extrinsic.NewExtensionBuilder(info.Types, extrinsic.NewSchema(info))
	data := testChainData()

	b.SetStandardExtensions(data, 0, 0)

	values := b.Values()
	assert.Equal(t, extrinsic.EncodeImmortalEra(), values.Extensions["CheckMortality"])
	assert.Equal(t, data.GenesisHash, values.AdditionalSigned["CheckMortality"])
}

func TestSetStandardExtensionsMortalUsesBlockHashAsCheckpoint(t *testing.T) {
	info := chainInfoForVersion(4)
	b := extrinsic.NewExtensionBuilder(info.Types, extrinsic.NewSchema(info))
	data := testChainData()

	b.SetStandardExtensions(data, 64, 0)

	values := b.Values()
	assert.Equal(t, extrinsic.EncodeMortalEra(64, data.BlockNumber), values.Extensions["CheckMortality"])
	assert.Equal(t, data.BlockHash, values.AdditionalSigned["CheckMortality"])
}

func TestValidateFailsWhenNothingWasSet(t *testing.T) {
	info := chainInfoForVersion(4)
	b := extrinsic.NewExtensionBuilder(info.Types, extrinsic.NewSchema(info))

	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_extension_value")
}

func TestAssetIDAndMetadataHashAreNoOpsWhenSchemaLacksThem(t *testing.T) {
	info := chainInfoForVersion(4)
	b := extrinsic.NewExtensionBuilder(info.Types, extrinsic.NewSchema(info))

	b.AssetID([]byte{0x01}).MetadataHash(true, []byte{0x02})

	values := b.Values()
	_, hasAsset := values.Extensions["ChargeAssetTxPayment"]
	_, hasMetadataHash := values.Extensions["CheckMetadataHash"]
	assert.False(t, hasAsset)
	assert.False(t, hasMetadataHash)
}

func TestSummaryReportsSetIdentifiersSorted(t *testing.T) {
	info := chainInfoForVersion(4)
	b := extrinsic.NewExtensionBuilder(info.Types, extrinsic.NewSchema(info))
	b.SetStandardExtensions(testChainData(), 64, 1000)

	summary := b.Summary()
	assert.Equal(t, []string{"ChargeTransactionPayment", "CheckMortality", "CheckNonce"}, summary.Extensions)
	assert.Equal(t, []string{"ChargeTransactionPayment", "CheckGenesis", "CheckMortality", "CheckSpecVersion", "CheckTxVersion"}, summary.AdditionalSigned)
}
