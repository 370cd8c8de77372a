package chaindata

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/chapool/go-substrate-client/internal/provider"
	"github.com/chapool/go-substrate-client/internal/rpcerr"
)

// accountNonceRuntimeCall is the well-known runtime API entry point for
// reading an account's transaction nonce via chainHead_v1_call. The spec
// this fetcher implements leaves the exact nonce source unspecified
// (only genesis/header/runtime-version calls are named); this mirrors
// the convention used throughout the Substrate runtime API surface.
const accountNonceRuntimeCall = "AccountNonceApi_account_nonce"

// fetcher resolves the ChainData a signed extrinsic needs, pulling each
// field through the Provider capability in parallel.
type fetcher struct {
	p provider.Provider
}

// Service exposes Fetch as an interface, mirroring the teacher's
// NewXxxService(...) Service constructor shape.
type Service interface {
	Fetch(ctx context.Context, subscriptionID, blockHash string, account []byte) (*ChainData, error)
}

// NewFetcher returns a Service backed by the given Provider.
//
//nolint:ireturn
func NewFetcher(p provider.Provider) Service {
	return &fetcher{p: p}
}

// Fetch resolves all ChainData fields concurrently. blockHash identifies
// the block to read spec/transaction version and nonce at (cmd/submit
// passes the finalized hash from the session's Initialized event);
// subscriptionID is the owning
// ChainHeadSession's id, required for the chainHead_v1_* calls.
func (f *fetcher) Fetch(ctx context.Context, subscriptionID, blockHash string, account []byte) (*ChainData, error) {
	data := &ChainData{}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		hash, err := f.fetchGenesisHash(gctx)
		if err != nil {
			return errors.Wrap(err, "failed to fetch genesis hash")
		}
		data.GenesisHash = hash
		return nil
	})

	group.Go(func() error {
		bh, err := hex.DecodeString(strings.TrimPrefix(blockHash, "0x"))
		if err != nil {
			return errors.Wrap(err, "failed to decode block hash")
		}
		data.BlockHash = bh
		return nil
	})

	group.Go(func() error {
		number, err := f.fetchBlockNumber(gctx, subscriptionID, blockHash)
		if err != nil {
			return errors.Wrap(err, "failed to fetch block number")
		}
		data.BlockNumber = number
		return nil
	})

	group.Go(func() error {
		specVersion, txVersion, err := f.fetchRuntimeVersions(gctx, subscriptionID, blockHash)
		if err != nil {
			return errors.Wrap(err, "failed to fetch runtime versions")
		}
		data.SpecVersion = specVersion
		data.TransactionVersion = txVersion
		return nil
	})

	group.Go(func() error {
		nonce, err := f.fetchNonce(gctx, subscriptionID, blockHash, account)
		if err != nil {
			return errors.Wrap(err, "failed to fetch nonce")
		}
		data.Nonce = nonce
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return data, nil
}

func (f *fetcher) fetchGenesisHash(ctx context.Context) ([]byte, error) {
	resp, err := f.send(ctx, "chainSpec_v1_genesisHash", nil)
	if err != nil {
		return nil, err
	}

	var hexHash string
	if err := json.Unmarshal(resp.Result, &hexHash); err != nil {
		return nil, errors.Wrap(err, "failed to decode genesis hash response")
	}

	return hex.DecodeString(strings.TrimPrefix(hexHash, "0x"))
}

func (f *fetcher) fetchBlockNumber(ctx context.Context, subscriptionID, blockHash string) (uint64, error) {
	resp, err := f.send(ctx, "chainHead_v1_header", []any{subscriptionID, blockHash})
	if err != nil {
		return 0, err
	}

	var header struct {
		Number string `json:"number"`
	}
	if err := json.Unmarshal(resp.Result, &header); err != nil {
		return 0, errors.Wrap(err, "failed to decode header response")
	}

	number, err := hexToUint64(header.Number)
	if err != nil {
		return 0, err
	}

	return number, nil
}

func (f *fetcher) fetchRuntimeVersions(ctx context.Context, subscriptionID, blockHash string) (spec, tx uint32, err error) {
	resp, err := f.send(ctx, "chainHead_v1_call", []any{subscriptionID, blockHash, "Core_version", "0x"})
	if err != nil {
		return 0, 0, err
	}

	var version struct {
		SpecVersion        uint32 `json:"specVersion"`
		TransactionVersion uint32 `json:"transactionVersion"`
	}
	if err := json.Unmarshal(resp.Result, &version); err != nil {
		return 0, 0, errors.Wrap(err, "failed to decode runtime version response")
	}

	return version.SpecVersion, version.TransactionVersion, nil
}

func (f *fetcher) fetchNonce(ctx context.Context, subscriptionID, blockHash string, account []byte) (uint64, error) {
	params := "0x" + hex.EncodeToString(account)

	resp, err := f.send(ctx, "chainHead_v1_call", []any{subscriptionID, blockHash, accountNonceRuntimeCall, params})
	if err != nil {
		return 0, err
	}

	var nonceHex string
	if err := json.Unmarshal(resp.Result, &nonceHex); err != nil {
		return 0, errors.Wrap(err, "failed to decode nonce response")
	}

	nonce, err := hexToUint64(nonceHex)
	if err != nil {
		return 0, err
	}

	return nonce, nil
}

func (f *fetcher) send(ctx context.Context, method string, params []any) (provider.RPCResponse, error) {
	resp, err := f.p.Send(ctx, method, params)
	if err != nil {
		return provider.RPCResponse{}, err
	}

	if resp.Error != nil {
		return provider.RPCResponse{}, rpcerr.RPCError(resp.Error.Message, nil)
	}

	return resp, nil
}

func hexToUint64(s string) (uint64, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return 0, nil
	}

	value, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse hex value %q", s)
	}

	return value, nil
}
