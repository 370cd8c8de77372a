// Package rawregistry is a minimal chaininfo.TypeRegistry for callers
// that already have every extension/call value pre-encoded as SCALE
// bytes (the CLI's `encode` demo, §4.11), plus the handful of fixed-width
// unsigned integers ExtensionBuilder.SetStandardExtensions produces
// directly (spec §4.3) — metadata parsing itself is explicitly out of
// this module's scope (see chaininfo's package doc), so this stands in
// for a real V14/V15/V16 metadata registry. It is not protocol-accurate
// for every field: CheckNonce and ChargeTransactionPayment carry a
// Compact<T> on a real chain, but general compact-integer encoding is
// out of scope here too (see extrinsic/compact.go), so this registry
// only ever emits fixed-width little-endian for integers. Callers that
// need the real compact form must pre-encode the value as []byte
// themselves, the same way the `encode` demo already requires.
package rawregistry

import (
	"fmt"

	"github.com/chapool/go-substrate-client/internal/chaininfo"
)

// rawCodec treats Encode's value argument as either an already-encoded
// []byte (appended verbatim) or a fixed-width uint32/uint64 (encoded
// little-endian); it never inspects typeID.
type rawCodec struct {
	zeroSized bool
}

func (c rawCodec) Encode(dst []byte, value any) ([]byte, error) {
	if c.zeroSized {
		return dst, nil
	}

	switch v := value.(type) {
	case []byte:
		return append(dst, v...), nil
	case uint32:
		return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24)), nil
	case uint64:
		return append(dst,
			byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
			byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56),
		), nil
	default:
		return nil, fmt.Errorf("rawregistry: unsupported value type %T", value)
	}
}

func (c rawCodec) IsZeroSized() bool { return c.zeroSized }

// Registry is a chaininfo.TypeRegistry over a caller-declared set of
// zero-sized type ids; every other type id resolves to a pass-through
// codec.
type Registry struct {
	zeroSized map[uint32]struct{}
}

// New returns a Registry whose zeroSizedTypeIDs encode to nothing (e.g.
// CheckWeight-style marker extensions) and whose every other type id
// passes its already-encoded bytes through unchanged.
func New(zeroSizedTypeIDs ...uint32) *Registry {
	r := &Registry{zeroSized: make(map[uint32]struct{}, len(zeroSizedTypeIDs))}
	for _, id := range zeroSizedTypeIDs {
		r.zeroSized[id] = struct{}{}
	}
	return r
}

// CodecFor implements chaininfo.TypeRegistry.
func (r *Registry) CodecFor(typeID uint32) (chaininfo.Codec, error) {
	_, zero := r.zeroSized[typeID]
	return rawCodec{zeroSized: zero}, nil
}
