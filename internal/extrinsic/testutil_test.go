package extrinsic_test

import (
	"fmt"

	"github.com/chapool/go-substrate-client/internal/chaininfo"
)

// fixedSizeCodec treats extension values as already-encoded byte slices
// of a known fixed width — good enough to exercise the encoder/payload
// pipelines without reimplementing general SCALE codecs, which are out
// of scope for this module and consumed via TypeRegistry in production.
type fixedSizeCodec struct {
	size int
}

func (c fixedSizeCodec) Encode(dst []byte, value any) ([]byte, error) {
	b, ok := value.([]byte)
	if !ok || len(b) != c.size {
		return nil, fmt.Errorf("expected %d-byte value, got %T", c.size, value)
	}
	return append(dst, b...), nil
}

func (c fixedSizeCodec) IsZeroSized() bool { return false }

func (c fixedSizeCodec) DecodedWidth(b []byte) (int, error) {
	if len(b) < c.size {
		return 0, fmt.Errorf("short buffer: want %d bytes, have %d", c.size, len(b))
	}
	return c.size, nil
}

type zeroSizedCodec struct{}

func (zeroSizedCodec) Encode(dst []byte, _ any) ([]byte, error) { return dst, nil }
func (zeroSizedCodec) IsZeroSized() bool                        { return true }
func (zeroSizedCodec) DecodedWidth([]byte) (int, error)         { return 0, nil }

// fakeRegistry maps type ids to codecs by a simple convention used across
// this package's tests: type id 0 is always zero-sized, and any other id
// n is a fixed-size codec of n bytes.
type fakeRegistry struct {
	overrides map[uint32]chaininfo.Codec
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{overrides: make(map[uint32]chaininfo.Codec)}
}

func (r *fakeRegistry) with(typeID uint32, codec chaininfo.Codec) *fakeRegistry {
	r.overrides[typeID] = codec
	return r
}

func (r *fakeRegistry) CodecFor(typeID uint32) (chaininfo.Codec, error) {
	if codec, ok := r.overrides[typeID]; ok {
		return codec, nil
	}
	if typeID == 0 {
		return zeroSizedCodec{}, nil
	}
	return fixedSizeCodec{size: int(typeID)}, nil
}

// standardExtensions builds a V14/V15-shaped schema matching the
// canonical set from spec §4.3; each entry sets its own in-block and
// signed flags.
func standardExtensions() []chaininfo.Extension {
	return []chaininfo.Extension{
		{Identifier: "CheckSpecVersion", TypeID: 4, IncludesInBlock: false, IncludesInSigned: true},
		{Identifier: "CheckTxVersion", TypeID: 4, IncludesInBlock: false, IncludesInSigned: true},
		{Identifier: "CheckGenesis", TypeID: 32, IncludesInBlock: false, IncludesInSigned: true},
		{Identifier: "CheckMortality", TypeID: 0, IncludesInBlock: true, IncludesInSigned: true},
		{Identifier: "CheckNonce", TypeID: 4, IncludesInBlock: true, IncludesInSigned: false},
		{Identifier: "CheckWeight", TypeID: 0, IncludesInBlock: true, IncludesInSigned: true},
		{Identifier: "ChargeTransactionPayment", TypeID: 16, IncludesInBlock: true, IncludesInSigned: true},
		{Identifier: "CheckNonZeroSender", TypeID: 0, IncludesInBlock: false, IncludesInSigned: true},
	}
}

func chainInfoForVersion(version int) chaininfo.ChainInfo {
	metaVersion := 14
	versions := map[int]struct{}{4: {}}
	if version == 5 {
		metaVersion = 16
		versions = map[int]struct{}{4: {}, 5: {}}
	}
	return chaininfo.ChainInfo{
		MetadataVersion: metaVersion,
		Types:           newFakeRegistry(),
		Extrinsic: chaininfo.ExtrinsicDescriptor{
			Versions:   versions,
			Extensions: standardExtensions(),
		},
	}
}
