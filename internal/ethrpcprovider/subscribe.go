package ethrpcprovider

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/chapool/go-substrate-client/internal/provider"
)

// wireRequest is a JSON-RPC 2.0 request frame, written directly over the
// websocket connection for subscription-opening calls (spec §9: "session
// cancellation via transport hooks" requires an onCancel integration
// seam this package provides via Subscription.Unsubscribe).
type wireRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// Subscribe opens method (chainHead_v1_follow or transaction_v1_broadcast)
// over the current endpoint's websocket connection, registers a channel
// for its server-minted subscription id in the notification demuxer, and
// returns the Subscription. onCancel fires when the consumer cancels the
// subscription (calls Unsubscribe).
func (p *ethProvider) Subscribe(ctx context.Context, method string, params []any, onCancel func()) (provider.Subscription, error) {
	ep, err := p.currentEndpoint(ctx)
	if err != nil {
		return provider.Subscription{}, errors.Wrap(err, "failed to acquire RPC endpoint")
	}
	if ep.ws == nil {
		return provider.Subscription{}, errors.Errorf("endpoint %s has no open websocket connection for subscriptions", ep.url)
	}

	requestID := uuid.NewString()
	waitCh := p.demux.awaitResponse(requestID)

	req := wireRequest{JSONRPC: "2.0", ID: requestID, Method: method, Params: params}
	if err := ep.ws.WriteJSON(req); err != nil {
		p.demux.cancelAwait(requestID)
		return provider.Subscription{}, errors.Wrapf(err, "failed to write %s request", method)
	}

	resp := <-waitCh
	if resp.err != nil {
		return provider.Subscription{}, resp.err
	}

	var subID string
	if err := json.Unmarshal(resp.result, &subID); err != nil {
		return provider.Subscription{}, errors.Wrapf(err, "failed to decode %s subscription id", method)
	}

	stream := p.demux.registerSubscription(subID)

	return provider.Subscription{
		ID:     subID,
		Stream: stream,
		Err:    p.demux.err,
		Unsubscribe: func() {
			p.demux.unregisterSubscription(subID)
			onCancel()
		},
	}, nil
}
