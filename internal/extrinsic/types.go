// Package extrinsic implements the extrinsic construction and encoding
// pipeline: version detection (C1), the unified extension schema (C2),
// the extension value builder (C3), the signing payload builder (C4) and
// the wire-format encoder/decoder (C5).
package extrinsic

// SignatureType names the signature scheme carried in MultiSignature.
type SignatureType int

const (
	SignatureUnknown SignatureType = iota
	SignatureEd25519
	SignatureSr25519
	SignatureEcdsa
)

func (t SignatureType) String() string {
	switch t {
	case SignatureEd25519:
		return "Ed25519"
	case SignatureSr25519:
		return "Sr25519"
	case SignatureEcdsa:
		return "Ecdsa"
	default:
		return "Unknown"
	}
}

// ExtensionValues holds the two parallel maps described in spec §3: values
// encoded into the extrinsic body (in-block), and values that participate
// only in the signing payload. Kept as two independent mappings rather
// than a merged value+annotation shape, per spec §9, because the encoding
// pipelines iterate them independently and V16 transaction extensions
// make the split first-class.
type ExtensionValues struct {
	Extensions       map[string]any
	AdditionalSigned map[string]any
}

// NewExtensionValues returns an ExtensionValues with both maps initialized.
func NewExtensionValues() ExtensionValues {
	return ExtensionValues{
		Extensions:       make(map[string]any),
		AdditionalSigned: make(map[string]any),
	}
}

// SignedData is the input to ExtrinsicEncoder.Encode (spec §3).
type SignedData struct {
	Signer        []byte
	Signature     []byte
	SignatureType SignatureType
	Extensions    ExtensionValues
	CallData      []byte
	// SigningPayload is the payload that was actually signed (raw
	// concatenation or its Blake2b-256 digest); carried for callers that
	// want to verify or log it, not re-derived by the encoder.
	SigningPayload []byte
}
