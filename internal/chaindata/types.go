// Package chaindata fetches the small set of chain facts an extension
// builder needs (spec §2 C6): genesis hash, current block hash/number,
// runtime versions, and an account nonce.
package chaindata

// ChainData is the fetched snapshot handed to ExtensionBuilder.setStandardExtensions.
type ChainData struct {
	GenesisHash        []byte
	BlockHash          []byte
	BlockNumber        uint64
	SpecVersion        uint32
	TransactionVersion uint32
	Nonce              uint64
}
