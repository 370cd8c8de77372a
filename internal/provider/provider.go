// Package provider declares the transport capability this module
// consumes (spec §6): request/response plus subscription, over whatever
// wire the caller wires up. Transport itself — WebSocket/HTTP JSON-RPC —
// is out of scope (spec §1); internal/ethrpcprovider supplies one
// concrete realization grounded on github.com/ethereum/go-ethereum/rpc.
package provider

import "context"

// RPCResponse is the result of a single request/response call.
type RPCResponse struct {
	ID     string
	Result []byte // raw JSON result payload, nil if Error is set
	Error  *RPCErrorPayload
}

// RPCErrorPayload is a non-null JSON-RPC error field (spec §7 RPCError).
type RPCErrorPayload struct {
	Code    int
	Message string
}

// SubscriptionMessage is one message delivered on a subscription's
// stream: a JSON-RPC subscription notification.
type SubscriptionMessage struct {
	Method       string
	Subscription string
	Result       []byte // raw JSON payload
}

// Subscription is a live subscription opened by Provider.Subscribe.
type Subscription struct {
	ID     string
	Stream <-chan SubscriptionMessage
	// Err reports the terminal error, if any, after Stream closes.
	Err func() error
	// Unsubscribe cancels the subscription. Calling it triggers the
	// onCancel hook passed to Subscribe (spec §9: "session cancellation
	// via transport hooks").
	Unsubscribe func()
}

// Provider is the capability consumed throughout this module: a
// request/response call plus a subscription primitive, and basic
// connection lifecycle. Concurrent calls against one Provider are the
// Provider's own concern (spec §5).
type Provider interface {
	Send(ctx context.Context, method string, params []any) (RPCResponse, error)
	// Subscribe opens a subscription. onCancel is invoked when the
	// consumer calls the returned Subscription's Unsubscribe; ctx being
	// done does not invoke it — the integration seam a
	// ChainHeadSession or TransactionBroadcast uses to issue
	// chainHead_v1_unfollow / transaction_v1_stop without leaking
	// server-side state (spec §9).
	Subscribe(ctx context.Context, method string, params []any, onCancel func()) (Subscription, error)

	Connect(ctx context.Context) error
	Disconnect() error
	IsConnected() bool
}
