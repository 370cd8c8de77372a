package extrinsic

import "github.com/chapool/go-substrate-client/internal/chaininfo"

// DetectVersion implements VersionDetector (C1, spec §4.1): if the
// extrinsic descriptor is V16 (metadata version 16) and advertises 5
// among its supported versions, the detected version is 5; V14/V15
// always yield 4.
func DetectVersion(info chaininfo.ChainInfo) int {
	if info.MetadataVersion == 16 && info.Extrinsic.SupportsVersion(5) {
		return 5
	}
	return 4
}
