package extrinsic

import (
	"golang.org/x/crypto/blake2b"

	"github.com/chapool/go-substrate-client/internal/chaininfo"
	"github.com/chapool/go-substrate-client/internal/rpcerr"
)

// signingPayloadThreshold is the byte length above which the signing
// payload is replaced by its Blake2b-256 digest (spec §4.4).
const signingPayloadThreshold = 256

// BuildSigningPayload implements SigningPayloadBuilder (C4, spec §4.4):
// concatenate call_bytes ‖ extensions_encoded ‖ additionalSigned_encoded,
// hashing the result with Blake2b-256 (consumed here as a pure function,
// spec §1) when it exceeds 256 bytes.
//
// Blake2b-256 is an out-of-scope cryptographic primitive per spec §1; it
// is invoked directly via golang.org/x/crypto/blake2b rather than routed
// through an interface, matching "consumed as pure functions".
func BuildSigningPayload(registry chaininfo.TypeRegistry, schema Schema, callData []byte, values ExtensionValues) ([]byte, error) {
	encodedExtensions, err := encodeExtensionSide(registry, schema, values.Extensions, sideInBlock)
	if err != nil {
		return nil, err
	}
	encodedAdditional, err := encodeExtensionSide(registry, schema, values.AdditionalSigned, sideSigned)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, len(callData)+len(encodedExtensions)+len(encodedAdditional))
	payload = append(payload, callData...)
	payload = append(payload, encodedExtensions...)
	payload = append(payload, encodedAdditional...)

	if len(payload) <= signingPayloadThreshold {
		return payload, nil
	}

	digest := blake2b.Sum256(payload)
	return digest[:], nil
}

type extensionSide int

const (
	sideInBlock extensionSide = iota
	sideSigned
)

// encodeExtensionSide encodes the extensions in schema order, writing
// from the given value map. Era extensions are written verbatim as
// pre-encoded bytes, per spec §4.5.6 and §9; all others go through the
// metadata-resolved codec, skipped entirely when the codec reports
// zero-sized or when the extension does not contribute to this side.
func encodeExtensionSide(registry chaininfo.TypeRegistry, schema Schema, values map[string]any, side extensionSide) ([]byte, error) {
	var out []byte

	for _, ext := range schema.Extensions() {
		switch side {
		case sideInBlock:
			if !ext.IncludesInBlock {
				continue
			}
		case sideSigned:
			if !ext.IncludesInSigned {
				continue
			}
		}

		encoded, err := EncodeOneExtension(registry, ext, values)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded...)
	}

	return out, nil
}

// EncodeOneExtension resolves and applies the codec for a single
// extension, or writes pre-encoded era bytes verbatim (spec §4.5.6).
// Shared by the signing-payload builder and the wire encoder so the two
// pipelines can never disagree about how an individual extension is
// rendered.
func EncodeOneExtension(registry chaininfo.TypeRegistry, ext chaininfo.Extension, values map[string]any) ([]byte, error) {
	if isEraIdentifier(ext.Identifier) {
		raw, ok := values[ext.Identifier]
		if !ok {
			return nil, rpcerr.MissingExtensionValue(ext.Identifier)
		}
		eraBytes, ok := raw.([]byte)
		if !ok {
			return nil, rpcerr.EraFormatError(ext.Identifier)
		}
		return eraBytes, nil
	}

	codec, err := registry.CodecFor(ext.TypeID)
	if err != nil {
		return nil, rpcerr.CodecError(ext.TypeID, err)
	}
	if codec.IsZeroSized() {
		return nil, nil
	}

	value, present := values[ext.Identifier]
	if !present {
		return nil, rpcerr.MissingExtensionValue(ext.Identifier)
	}

	encoded, err := codec.Encode(nil, value)
	if err != nil {
		return nil, rpcerr.CodecError(ext.TypeID, err)
	}
	return encoded, nil
}

func isEraIdentifier(identifier string) bool {
	return identifier == "CheckMortality" || identifier == "CheckEra"
}
