package extrinsic

// MultiAddress variant bytes (spec §4.5.4).
const (
	addressVariantID     byte = 0x00
	addressVariantAddr20 byte = 0x04
	addressVariantRaw    byte = 0x02
)

// EncodeMultiAddress writes the variant-tagged MultiAddress for signer,
// per spec §4.5.4: 32 bytes → Id (0x00); 20 bytes → Address20 (0x04);
// any other length → Raw (0x02) followed by compact(len) ‖ bytes.
func EncodeMultiAddress(signer []byte) []byte {
	switch len(signer) {
	case 32:
		out := make([]byte, 0, 1+32)
		out = append(out, addressVariantID)
		return append(out, signer...)
	case 20:
		out := make([]byte, 0, 1+20)
		out = append(out, addressVariantAddr20)
		return append(out, signer...)
	default:
		out := make([]byte, 0, 1+5+len(signer))
		out = append(out, addressVariantRaw)
		out = append(out, EncodeCompactLen(len(signer))...)
		return append(out, signer...)
	}
}

// DecodeMultiAddress is the inverse of EncodeMultiAddress (spec §4.5.7).
func DecodeMultiAddress(b []byte) (signer []byte, consumed int, ok bool) {
	if len(b) == 0 {
		return nil, 0, false
	}
	switch b[0] {
	case addressVariantID:
		if len(b) < 33 {
			return nil, 0, false
		}
		return b[1:33], 33, true
	case addressVariantAddr20:
		if len(b) < 21 {
			return nil, 0, false
		}
		return b[1:21], 21, true
	case addressVariantRaw:
		length, n, ok := DecodeCompactLen(b[1:])
		if !ok || len(b[1+n:]) < length {
			return nil, 0, false
		}
		start := 1 + n
		return b[start : start+length], start + length, true
	default:
		return nil, 0, false
	}
}
