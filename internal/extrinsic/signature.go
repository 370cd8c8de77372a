package extrinsic

// MultiSignature variant bytes (spec §4.5.5).
const (
	signatureVariantEd25519 byte = 0x00
	signatureVariantSr25519 byte = 0x01
	signatureVariantEcdsa   byte = 0x02
)

// EncodeMultiSignature writes the variant-tagged MultiSignature, per spec
// §4.5.5: Ed25519 → 0x00, Sr25519 → 0x01, Ecdsa → 0x02, Unknown defaults
// to Sr25519 (0x01); followed by the raw signature bytes (64 or 65).
func EncodeMultiSignature(sig []byte, sigType SignatureType) []byte {
	out := make([]byte, 0, 1+len(sig))
	out = append(out, signatureVariantByte(sigType))
	return append(out, sig...)
}

func signatureVariantByte(t SignatureType) byte {
	switch t {
	case SignatureEd25519:
		return signatureVariantEd25519
	case SignatureEcdsa:
		return signatureVariantEcdsa
	case SignatureSr25519, SignatureUnknown:
		return signatureVariantSr25519
	default:
		return signatureVariantSr25519
	}
}

// DecodeMultiSignature is the inverse of EncodeMultiSignature (spec
// §4.5.7): variant byte, then 64 bytes for Ed25519/Sr25519 or 65 for
// Ecdsa.
func DecodeMultiSignature(b []byte) (sig []byte, sigType SignatureType, consumed int, ok bool) {
	if len(b) == 0 {
		return nil, SignatureUnknown, 0, false
	}
	switch b[0] {
	case signatureVariantEd25519:
		if len(b) < 65 {
			return nil, SignatureUnknown, 0, false
		}
		return b[1:65], SignatureEd25519, 65, true
	case signatureVariantSr25519:
		if len(b) < 65 {
			return nil, SignatureUnknown, 0, false
		}
		return b[1:65], SignatureSr25519, 65, true
	case signatureVariantEcdsa:
		if len(b) < 66 {
			return nil, SignatureUnknown, 0, false
		}
		return b[1:66], SignatureEcdsa, 66, true
	default:
		return nil, SignatureUnknown, 0, false
	}
}

// InferSignatureType implements the heuristic of spec §9: when callers
// lack explicit type info, infer from signature length plus the high bit
// of the last byte. 65 bytes → ECDSA; 64 bytes with bit 7 of the last
// byte clear → Ed25519; 64 bytes with that bit set → Sr25519. This
// reflects a convention used by signing tooling and should not be relied
// on when the type is already known.
func InferSignatureType(sig []byte) SignatureType {
	switch len(sig) {
	case 65:
		return SignatureEcdsa
	case 64:
		if sig[63]&0x80 == 0 {
			return SignatureEd25519
		}
		return SignatureSr25519
	default:
		return SignatureUnknown
	}
}
