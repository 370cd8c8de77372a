package extrinsic

import (
	"sort"

	"github.com/chapool/go-substrate-client/internal/chaindata"
	"github.com/chapool/go-substrate-client/internal/chaininfo"
	"github.com/chapool/go-substrate-client/internal/rpcerr"
)

// Canonical signed/transaction extension identifiers populated by
// SetStandardExtensions (spec §4.3). Naming matches the Substrate
// runtime's own signed-extension identifiers verbatim, since they are
// the wire contract, not an internal choice.
const (
	extCheckSpecVersion         = "CheckSpecVersion"
	extCheckTxVersion           = "CheckTxVersion"
	extCheckGenesis             = "CheckGenesis"
	extCheckMortality           = "CheckMortality"
	extCheckEra                 = "CheckEra"
	extCheckNonce               = "CheckNonce"
	extChargeTransactionPayment = "ChargeTransactionPayment"
	extChargeAssetTxPayment     = "ChargeAssetTxPayment"
	extCheckMetadataHash        = "CheckMetadataHash"
)

// MetadataHashMode is CheckMetadataHash's value (spec §4.3): either
// disabled, or enabled carrying the expected runtime metadata digest.
type MetadataHashMode struct {
	Enabled bool
	Hash    []byte
}

// Summary is the diagnostic snapshot returned by ExtensionBuilder.Summary
// (spec §4.3 summary()): which identifiers have been given a value on
// each side, for logging or troubleshooting a failed Validate call.
type Summary struct {
	Extensions       []string
	AdditionalSigned []string
}

// ExtensionBuilder implements ExtensionBuilder (C3, spec §4.3): turns a
// chaindata.ChainData snapshot plus a handful of caller-chosen knobs
// (era period, tip, optional fee asset, optional metadata hash) into a
// populated ExtensionValues, ready for SigningPayloadBuilder/Encoder.
// Generalized from the teacher's withdraw.Request accumulate-then-
// validate pattern (internal/wallet/withdraw/types.go + service.go's
// "1. 验证参数" step), replacing a DB-backed withdraw request with
// chain-extension values and the HTTP error taxonomy with rpcerr.
type ExtensionBuilder struct {
	registry chaininfo.TypeRegistry
	schema   Schema
	values   ExtensionValues
}

// NewExtensionBuilder returns an ExtensionBuilder against the given
// registry and schema. The registry is consulted only by Validate, to
// tell zero-sized extensions (which need no value) from the rest.
func NewExtensionBuilder(registry chaininfo.TypeRegistry, schema Schema) *ExtensionBuilder {
	return &ExtensionBuilder{
		registry: registry,
		schema:   schema,
		values:   NewExtensionValues(),
	}
}

// SetStandardExtensions populates the canonical extension set from data
// plus the caller-chosen eraPeriod (0 means immortal) and tip (spec
// §4.3). Only identifiers actually present in the schema are set, so
// this is safe to call regardless of which extensions a given runtime
// advertises. CheckWeight and CheckNonZeroSender need no value: they are
// always zero-sized, per spec §4.3's own parenthetical.
func (b *ExtensionBuilder) SetStandardExtensions(data chaindata.ChainData, eraPeriod, tip uint64) *ExtensionBuilder {
	b.setIfPresent(extCheckSpecVersion, data.SpecVersion)
	b.setIfPresent(extCheckTxVersion, data.TransactionVersion)
	b.setIfPresent(extCheckGenesis, data.GenesisHash)
	b.setIfPresent(extCheckNonce, data.Nonce)
	b.setIfPresent(extChargeTransactionPayment, tip)

	if eraPeriod == 0 {
		b.Immortal(data.GenesisHash)
	} else {
		b.Era(eraPeriod, data.BlockNumber, data.BlockHash)
	}

	if _, ok := b.schema.Lookup(extCheckMetadataHash); ok {
		b.MetadataHash(false, nil)
	}

	return b
}

// Immortal marks the transaction immortal: the era extension carries the
// single-byte 0x00 encoding, and its additionalSigned checkpoint is the
// genesis hash (the chain's own convention for an unbounded lifetime).
func (b *ExtensionBuilder) Immortal(genesisHash []byte) *ExtensionBuilder {
	return b.setEra(EncodeImmortalEra(), genesisHash)
}

// Era marks the transaction mortal for period blocks starting at
// current, producing the pre-encoded era bytes via EncodeMortalEra (spec
// §4.3's era encoding rule) and recording checkpointBlockHash as the
// additionalSigned side of the same extension.
func (b *ExtensionBuilder) Era(period, current uint64, checkpointBlockHash []byte) *ExtensionBuilder {
	return b.setEra(EncodeMortalEra(period, current), checkpointBlockHash)
}

// setEra writes eraBytes/checkpointHash under whichever era identifier
// (CheckMortality or CheckEra) the schema actually declares, on whichever
// side(s) that identifier contributes to. Both identifiers are tried
// because different metadata versions name the same extension
// differently (spec §9: "era as opaque bytes").
func (b *ExtensionBuilder) setEra(eraBytes, checkpointHash []byte) *ExtensionBuilder {
	for _, identifier := range [...]string{extCheckMortality, extCheckEra} {
		ext, ok := b.schema.Lookup(identifier)
		if !ok {
			continue
		}
		if ext.IncludesInBlock {
			b.values.Extensions[identifier] = eraBytes
		}
		if ext.IncludesInSigned {
			b.values.AdditionalSigned[identifier] = checkpointHash
		}
	}
	return b
}

// MetadataHash sets CheckMetadataHash's value when the schema carries
// that extension; a no-op otherwise (spec §4.3).
func (b *ExtensionBuilder) MetadataHash(enabled bool, hash []byte) *ExtensionBuilder {
	return b.setIfPresent(extCheckMetadataHash, MetadataHashMode{Enabled: enabled, Hash: hash})
}

// AssetID sets the optional fee-paying asset (ChargeAssetTxPayment, spec
// §4.3); call only when the caller wants a non-native fee asset. A no-op
// when the schema has no such extension.
func (b *ExtensionBuilder) AssetID(id []byte) *ExtensionBuilder {
	return b.setIfPresent(extChargeAssetTxPayment, id)
}

func (b *ExtensionBuilder) setIfPresent(identifier string, value any) *ExtensionBuilder {
	ext, ok := b.schema.Lookup(identifier)
	if !ok {
		return b
	}
	if ext.IncludesInBlock {
		b.values.Extensions[identifier] = value
	}
	if ext.IncludesInSigned {
		b.values.AdditionalSigned[identifier] = value
	}
	return b
}

// Validate ensures every non-zero-sized schema entry has a value in the
// side(s) it contributes to (spec §3 invariant, §4.3 validate()). Era
// identifiers are checked directly against the values already written by
// setEra, without consulting the registry, since the encoder never
// routes them through a codec either (spec §9).
func (b *ExtensionBuilder) Validate() error {
	for _, ext := range b.schema.Extensions() {
		if isEraIdentifier(ext.Identifier) {
			if err := b.requirePresent(ext); err != nil {
				return err
			}
			continue
		}

		codec, err := b.registry.CodecFor(ext.TypeID)
		if err != nil {
			return rpcerr.CodecError(ext.TypeID, err)
		}
		if codec.IsZeroSized() {
			continue
		}

		if err := b.requirePresent(ext); err != nil {
			return err
		}
	}
	return nil
}

func (b *ExtensionBuilder) requirePresent(ext chaininfo.Extension) error {
	if ext.IncludesInBlock {
		if _, ok := b.values.Extensions[ext.Identifier]; !ok {
			return rpcerr.MissingExtensionValue(ext.Identifier)
		}
	}
	if ext.IncludesInSigned {
		if _, ok := b.values.AdditionalSigned[ext.Identifier]; !ok {
			return rpcerr.MissingExtensionValue(ext.Identifier)
		}
	}
	return nil
}

// Values returns the built ExtensionValues, ready for
// BuildSigningPayload/Encoder.Encode. Callers should call Validate first.
func (b *ExtensionBuilder) Values() ExtensionValues {
	return b.values
}

// Summary returns a diagnostic snapshot of which identifiers currently
// have a value on each side (spec §4.3 summary()).
func (b *ExtensionBuilder) Summary() Summary {
	return Summary{
		Extensions:       sortedKeys(b.values.Extensions),
		AdditionalSigned: sortedKeys(b.values.AdditionalSigned),
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
