// Package chaininfo declares the metadata-registry surface this module
// consumes. The registry itself — parsing runtime metadata V14/V15/V16
// into a TypeRegistry and an extrinsic descriptor — lives outside this
// module; only the interfaces below are needed to drive encoding.
package chaininfo

// Codec resolves and applies the SCALE encoding for one metadata type id.
// SCALE primitives (compact integers, fixed arrays, variant enums,
// map-of-named-fields) are implemented by the registry, not here.
type Codec interface {
	// Encode appends the SCALE encoding of value to dst and returns the
	// extended slice.
	Encode(dst []byte, value any) ([]byte, error)
	// IsZeroSized reports whether this type contributes zero bytes to the
	// wire (e.g. a marker type such as CheckWeight).
	IsZeroSized() bool
}

// TypeRegistry resolves a metadata type id to a Codec.
type TypeRegistry interface {
	CodecFor(typeID uint32) (Codec, error)
}

// Extension describes one metadata-declared signed/transaction extension
// in the order metadata declares it. In V14/V15 both flags are always
// true (signed extensions carry both in-block and signing-only data); in
// V16 a transaction extension may contribute to only one side.
type Extension struct {
	Identifier       string
	TypeID           uint32
	IncludesInBlock  bool
	IncludesInSigned bool
}

// ExtrinsicDescriptor is the piece of ChainInfo this module reads to pick
// the wire format and to iterate extensions in metadata order.
type ExtrinsicDescriptor struct {
	// Versions is the set of extrinsic format numbers the runtime
	// advertises, e.g. {4} or {4, 5}.
	Versions map[int]struct{}
	// Extensions is the ordered schema. For V14/V15 this is
	// signed_extensions; for V16 it is the transaction extensions for
	// the version actually selected (see VersionDetector).
	Extensions []Extension
}

// SupportsVersion reports whether v is among the advertised versions.
func (d ExtrinsicDescriptor) SupportsVersion(v int) bool {
	_, ok := d.Versions[v]
	return ok
}

// ChainInfo is the resolved runtime metadata this module consumes.
// MetadataVersion is one of 14, 15, 16 and only affects which source the
// extrinsic descriptor was built from; this module never branches on it
// directly — it branches on ExtrinsicDescriptor.Versions instead.
type ChainInfo struct {
	MetadataVersion int
	Extrinsic       ExtrinsicDescriptor
	Types           TypeRegistry
}
