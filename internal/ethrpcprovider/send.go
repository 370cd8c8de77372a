package ethrpcprovider

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github.com/chapool/go-substrate-client/internal/provider"
)

// Send performs a plain request/response JSON-RPC call through the
// current endpoint's go-ethereum/rpc.Client.
func (p *ethProvider) Send(ctx context.Context, method string, params []any) (provider.RPCResponse, error) {
	ep, err := p.currentEndpoint(ctx)
	if err != nil {
		return provider.RPCResponse{}, errors.Wrap(err, "failed to acquire RPC endpoint")
	}

	var raw json.RawMessage
	if err := ep.client.CallContext(ctx, &raw, method, params...); err != nil {
		if rpcErr, ok := err.(rpc.Error); ok { //nolint:errorlint // rpc.Error is an interface, not a wrapped error
			return provider.RPCResponse{Error: &provider.RPCErrorPayload{Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}}, nil
		}
		return provider.RPCResponse{}, errors.Wrapf(err, "RPC call %s failed", method)
	}

	return provider.RPCResponse{Result: raw}, nil
}
