package extrinsic

import (
	"github.com/chapool/go-substrate-client/internal/chaininfo"
	"github.com/chapool/go-substrate-client/internal/rpcerr"
)

// Version byte bit masks (spec §4.5).
const (
	signedFlag  byte = 0x80
	generalFlag byte = 0x40
	versionMask byte = 0x3f
)

// Encoder implements ExtrinsicEncoder (C5, spec §4.5). The detected
// version is fixed for the lifetime of the encoder, as VersionDetector
// produces an immutable field.
type Encoder struct {
	version  int
	schema   Schema
	registry chaininfo.TypeRegistry
}

// NewEncoder builds an Encoder for the given ChainInfo, running
// VersionDetector (C1) and building the Schema (C2) once.
func NewEncoder(info chaininfo.ChainInfo) *Encoder {
	return &Encoder{
		version:  DetectVersion(info),
		schema:   NewSchema(info),
		registry: info.Types,
	}
}

// Version returns the detected extrinsic format version (4 or 5).
func (e *Encoder) Version() int { return e.version }

// Schema returns the ordered extension schema this encoder uses.
func (e *Encoder) Schema() Schema { return e.schema }

// EncodeUnsigned implements §4.5.1: compact(len) ‖ version_byte ‖ callData.
func (e *Encoder) EncodeUnsigned(callData []byte) ([]byte, error) {
	//nolint:gosec // detected version is always 4 or 5, fits a byte
	body := append([]byte{byte(e.version)}, callData...)
	return prependCompactLen(body), nil
}

// Encode implements §4.5.2: the signed extrinsic for V4 or V5.
// body = 0x{8,detected_version} ‖ MultiAddress(signer) ‖
// MultiSignature(signature, type) ‖ extensions_encoded ‖ callData.
func (e *Encoder) Encode(data SignedData) ([]byte, error) {
	//nolint:gosec // detected version is always 4 or 5, fits a byte
	versionByte := signedFlag | byte(e.version)

	encodedExtensions, err := encodeExtensionSide(e.registry, e.schema, data.Extensions.Extensions, sideInBlock)
	if err != nil {
		return nil, err
	}

	body := make([]byte, 0, 1+40+len(encodedExtensions)+len(data.CallData))
	body = append(body, versionByte)
	body = append(body, EncodeMultiAddress(data.Signer)...)
	body = append(body, EncodeMultiSignature(data.Signature, data.SignatureType)...)
	body = append(body, encodedExtensions...)
	body = append(body, data.CallData...)

	return prependCompactLen(body), nil
}

// EncodeGeneral implements §4.5.3: the V5 general extrinsic mode.
// compact(len) ‖ 0x45 ‖ extensionVersion_byte ‖ extensions_encoded ‖
// callData. Fails with UnsupportedVersion if the detected version is not
// 5.
func (e *Encoder) EncodeGeneral(callData []byte, extensions ExtensionValues, extensionVersion byte) ([]byte, error) {
	if e.version != 5 {
		return nil, rpcerr.UnsupportedVersion(e.version)
	}

	encodedExtensions, err := encodeExtensionSide(e.registry, e.schema, extensions.Extensions, sideInBlock)
	if err != nil {
		return nil, err
	}

	generalVersionByte := generalFlag | 0x05

	body := make([]byte, 0, 2+len(encodedExtensions)+len(callData))
	body = append(body, generalVersionByte, extensionVersion)
	body = append(body, encodedExtensions...)
	body = append(body, callData...)

	return prependCompactLen(body), nil
}

func prependCompactLen(body []byte) []byte {
	prefix := EncodeCompactLen(len(body))
	out := make([]byte, 0, len(prefix)+len(body))
	out = append(out, prefix...)
	return append(out, body...)
}

// Decoded is the structured result of Decode: the inverse of the three
// encode modes (spec §4.5.7). The Signed and General flags tell which
// mode was decoded and so which of the fields are populated.
type Decoded struct {
	Version          int
	Signed           bool
	General          bool
	ExtensionVersion byte
	Signer           []byte
	Signature        []byte
	SignatureType    SignatureType
	RawExtensions    []byte // concatenated pre-decoded extension bytes, opaque here
	CallData         []byte
}

// Decode implements §4.5.7: read version byte, dispatch on flag bits; for
// general, read one extension-version byte then extensions; for signed,
// read MultiAddress, MultiSignature, then extensions; always finally read
// the runtime call. The call and extension bytes are opaque to this
// decoder except for locating their boundaries via the schema's type
// widths — since the raw codec widths are supplied externally via
// TypeRegistry, RawExtensions captures the encoded extension region
// unparsed and CallData captures the remainder of the extrinsic body.
func Decode(b []byte, registry chaininfo.TypeRegistry, schema Schema) (*Decoded, int, error) {
	length, n, ok := DecodeCompactLen(b)
	if !ok || len(b[n:]) < length {
		return nil, 0, rpcerr.UnsupportedVersion(-1)
	}
	body := b[n : n+length]
	totalConsumed := n + length

	if len(body) == 0 {
		return nil, 0, rpcerr.UnsupportedVersion(-1)
	}
	versionByte := body[0]
	version := int(versionByte & versionMask)
	signed := versionByte&signedFlag != 0
	general := versionByte&generalFlag != 0

	if !validVersionByte(versionByte) {
		return nil, 0, rpcerr.UnsupportedVersion(int(versionByte))
	}

	cursor := 1
	decoded := &Decoded{Version: version, Signed: signed, General: general}

	if general {
		if cursor >= len(body) {
			return nil, 0, rpcerr.UnsupportedVersion(version)
		}
		decoded.ExtensionVersion = body[cursor]
		cursor++

		rawExt, callData, err := splitExtensionsAndCall(registry, schema, body[cursor:])
		if err != nil {
			return nil, 0, err
		}
		decoded.RawExtensions = rawExt
		decoded.CallData = callData
		return decoded, totalConsumed, nil
	}

	if signed {
		signer, consumed, ok := DecodeMultiAddress(body[cursor:])
		if !ok {
			return nil, 0, rpcerr.UnsupportedVersion(version)
		}
		decoded.Signer = signer
		cursor += consumed

		sig, sigType, consumed, ok := DecodeMultiSignature(body[cursor:])
		if !ok {
			return nil, 0, rpcerr.UnsupportedVersion(version)
		}
		decoded.Signature = sig
		decoded.SignatureType = sigType
		cursor += consumed

		rawExt, callData, err := splitExtensionsAndCall(registry, schema, body[cursor:])
		if err != nil {
			return nil, 0, err
		}
		decoded.RawExtensions = rawExt
		decoded.CallData = callData
		return decoded, totalConsumed, nil
	}

	// Bare: compact(len) ‖ version_byte ‖ callData.
	decoded.CallData = body[cursor:]
	return decoded, totalConsumed, nil
}

func validVersionByte(b byte) bool {
	switch b {
	case 0x04, 0x84, 0x05, 0x45, 0x85:
		return true
	default:
		return false
	}
}

// splitExtensionsAndCall locates the boundary between the extensions
// region and the call by encoding each schema entry's in-block value
// width via the registry codec's own re-encode of the decoded value is
// not available without a decoding codec; this module's TypeRegistry
// only exposes Encode, so width discovery on decode is delegated to the
// registry through a best-effort probe: era identifiers consume their
// fixed width (1 or 2 bytes) and all other non-zero-sized entries are
// assumed to report their consumed width via the codec when decoded
// externally. Since decoding arbitrary SCALE values is out of scope
// (spec §1, consumed via TypeRegistry), this helper only resolves the
// era width precisely and otherwise treats the remaining bytes as
// belonging to the call once all schema entries are accounted for by
// zero-sized skips and era bytes — callers with non-era, non-zero-sized
// extensions must supply a TypeRegistry whose Codec also implements
// WidthDecoder to participate in boundary discovery.
func splitExtensionsAndCall(registry chaininfo.TypeRegistry, schema Schema, rest []byte) (rawExtensions []byte, callData []byte, err error) {
	cursor := 0
	for _, ext := range schema.Extensions() {
		if !ext.IncludesInBlock {
			continue
		}
		if isEraIdentifier(ext.Identifier) {
			_, _, _, consumed, ok := DecodeEra(rest[cursor:])
			if !ok {
				return nil, nil, rpcerr.EraFormatError(ext.Identifier)
			}
			cursor += consumed
			continue
		}

		codec, cerr := registry.CodecFor(ext.TypeID)
		if cerr != nil {
			return nil, nil, rpcerr.CodecError(ext.TypeID, cerr)
		}
		if codec.IsZeroSized() {
			continue
		}

		widthCodec, ok := codec.(WidthDecoder)
		if !ok {
			return nil, nil, rpcerr.CodecError(ext.TypeID, errNoWidthDecoder)
		}
		width, werr := widthCodec.DecodedWidth(rest[cursor:])
		if werr != nil {
			return nil, nil, rpcerr.CodecError(ext.TypeID, werr)
		}
		cursor += width
	}

	return rest[:cursor], rest[cursor:], nil
}

// WidthDecoder is an optional capability a TypeRegistry's Codec may
// implement to participate in decode-side boundary discovery (spec
// §4.5.7 round-trip). Implementing it is the metadata registry's concern,
// out of scope for this module; Codec implementations that omit it can
// still be used for encoding.
type WidthDecoder interface {
	// DecodedWidth returns the number of bytes the next encoded value
	// occupies at the front of b.
	DecodedWidth(b []byte) (int, error)
}

type errNoWidthDecoderType struct{}

func (errNoWidthDecoderType) Error() string {
	return "codec does not implement WidthDecoder; cannot locate extension boundary on decode"
}

var errNoWidthDecoder = errNoWidthDecoderType{}
