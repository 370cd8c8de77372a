package extrinsic

import "github.com/chapool/go-substrate-client/internal/chaininfo"

// Schema is the unified, stable-ordered list of extensions for the
// detected extrinsic version (C2, spec §4.2). V14/V15 metadata already
// exposes a single signed_extensions list; V16 metadata's
// ExtrinsicDescriptor.Extensions is expected to already be filtered to
// the transaction extensions for the selected version by the metadata
// registry (out of scope here) — Schema just preserves that order, since
// ordering is the contract: encoding must follow it exactly.
type Schema struct {
	extensions []chaininfo.Extension
}

// NewSchema builds a Schema from a ChainInfo's extrinsic descriptor.
func NewSchema(info chaininfo.ChainInfo) Schema {
	return Schema{extensions: info.Extrinsic.Extensions}
}

// Extensions returns the ordered list of extensions. Callers must not
// mutate the returned slice.
func (s Schema) Extensions() []chaininfo.Extension {
	return s.extensions
}

// Lookup returns the extension with the given identifier, if present.
func (s Schema) Lookup(identifier string) (chaininfo.Extension, bool) {
	for _, ext := range s.extensions {
		if ext.Identifier == identifier {
			return ext, true
		}
	}
	return chaininfo.Extension{}, false
}
