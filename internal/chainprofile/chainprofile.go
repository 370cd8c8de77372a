// Package chainprofile implements the ChainProfile registry (SPEC_FULL
// §4.9, C12): a small, static lookup of known chain presets, generalized
// from the teacher's DB-backed internal/wallet/chain.Service
// (GetChain/ListChains/GetActiveChains over sqlboiler models) into a
// config-sourced, in-memory-only registry — same service-interface
// shape, no persistence, no "active" flag since every configured profile
// is always usable.
package chainprofile

import (
	"context"

	"github.com/pkg/errors"
)

// Profile is a static, never-mutated convenience record identifying a
// known chain.
type Profile struct {
	Name             string
	GenesisHash      string
	SS58Format       uint16
	DefaultEraPeriod uint64
}

// Service mirrors the teacher's chain.Service interface shape.
type Service interface {
	GetProfile(ctx context.Context, name string) (Profile, error)
	GetProfileByGenesisHash(ctx context.Context, genesisHash string) (Profile, error)
	ListProfiles(ctx context.Context) []Profile
}

type registry struct {
	byName  map[string]Profile
	byHash  map[string]Profile
	ordered []Profile
}

// NewRegistry builds a Service from a static set of profiles (typically
// sourced from config at process startup).
//
//nolint:ireturn
func NewRegistry(profiles []Profile) Service {
	r := &registry{
		byName: make(map[string]Profile, len(profiles)),
		byHash: make(map[string]Profile, len(profiles)),
	}

	for _, p := range profiles {
		r.byName[p.Name] = p
		r.byHash[p.GenesisHash] = p
		r.ordered = append(r.ordered, p)
	}

	return r
}

func (r *registry) GetProfile(_ context.Context, name string) (Profile, error) {
	p, ok := r.byName[name]
	if !ok {
		return Profile{}, errors.Errorf("chain profile %q not found", name)
	}
	return p, nil
}

func (r *registry) GetProfileByGenesisHash(_ context.Context, genesisHash string) (Profile, error) {
	p, ok := r.byHash[genesisHash]
	if !ok {
		return Profile{}, errors.Errorf("chain profile with genesis hash %q not found", genesisHash)
	}
	return p, nil
}

func (r *registry) ListProfiles(_ context.Context) []Profile {
	out := make([]Profile, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// WellKnown returns the small set of presets this library ships with,
// matching the chains named throughout spec.md's glossary. Genesis
// hashes are the well-known public values published by each network.
func WellKnown() []Profile {
	return []Profile{
		{Name: "polkadot", GenesisHash: "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3", SS58Format: 0, DefaultEraPeriod: 64},
		{Name: "kusama", GenesisHash: "0xb0a8d493285c2df73290dfb7e61f870f17b41801197a149ca93654499ea3dafe", SS58Format: 2, DefaultEraPeriod: 64},
		{Name: "westend", GenesisHash: "0xe143f23803ac50e8f6f8e62695d1ce9e4e1d68aa36c1cd2cfd15340213f3423e", SS58Format: 42, DefaultEraPeriod: 64},
		{Name: "paseo", GenesisHash: "0x77afd6190f1554ad45fd0d31aee62aacc33c6db0ea801129acb813f913e0764f", SS58Format: 0, DefaultEraPeriod: 64},
	}
}
