package extrinsic

import "math/bits"

// EncodeImmortalEra returns the single-byte immortal era encoding (spec
// §4.3): CheckMortality/CheckEra do not share the generic codec path —
// they carry a pre-encoded byte sequence the encoder writes verbatim.
func EncodeImmortalEra() []byte {
	return []byte{0x00}
}

// EncodeMortalEra returns the 2-byte mortal era encoding for the given
// period and current block number, following spec §4.3 exactly:
//
//	period is rounded up to the nearest power of two in [4, 65536]
//	phase = current mod period
//	quantize = max(period >> 12, 1)
//	phase' = (phase / quantize) * quantize
//	l = trailing_zeros(period) - 1, clamped to [1, 15]
//	encoded as little-endian u16 whose low 4 bits are l and whose high
//	12 bits are phase' / quantize
func EncodeMortalEra(period, current uint64) []byte {
	period = roundToPowerOfTwoInRange(period, 4, 65536)

	phase := current % period
	quantize := period >> 12
	if quantize == 0 {
		quantize = 1
	}
	quantizedPhase := (phase / quantize) * quantize

	l := bits.TrailingZeros64(period) - 1
	if l < 1 {
		l = 1
	}
	if l > 15 {
		l = 15
	}

	//nolint:gosec // l is clamped to [1,15] and quantizedPhase/quantize fits 12 bits by construction
	encoded := uint16(l) | uint16((quantizedPhase/quantize)<<4)

	return []byte{byte(encoded), byte(encoded >> 8)}
}

func roundToPowerOfTwoInRange(period, lo, hi uint64) uint64 {
	if period < lo {
		return lo
	}
	if period > hi {
		return hi
	}
	if period&(period-1) == 0 {
		return period
	}
	rounded := uint64(1) << bits.Len64(period)
	if rounded > hi {
		return hi
	}
	return rounded
}

// DecodeEra is the inverse of EncodeImmortalEra/EncodeMortalEra, used by
// the decoder (spec §4.5.7): a single 0x00 byte is immortal; otherwise
// two bytes follow.
func DecodeEra(b []byte) (immortal bool, period, phase uint64, consumed int, ok bool) {
	if len(b) == 0 {
		return false, 0, 0, 0, false
	}
	if b[0] == 0x00 {
		return true, 0, 0, 1, true
	}
	if len(b) < 2 {
		return false, 0, 0, 0, false
	}
	encoded := uint16(b[0]) | uint16(b[1])<<8
	l := encoded & 0x0f
	quantizedPhase := encoded >> 4

	period = uint64(1) << (l + 1)
	quantize := period >> 12
	if quantize == 0 {
		quantize = 1
	}
	phase = uint64(quantizedPhase) * quantize

	return false, period, phase, 2, true
}
