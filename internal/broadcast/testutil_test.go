package broadcast_test

import (
	"context"

	"github.com/chapool/go-substrate-client/internal/provider"
)

type fakeProvider struct {
	subID      string
	stream     chan provider.SubscriptionMessage
	stopCalls  int
	lastMethod string
	lastParams []any
	onCancel   func()
}

func newFakeProvider(subID string) *fakeProvider {
	return &fakeProvider{subID: subID, stream: make(chan provider.SubscriptionMessage, 4)}
}

func (f *fakeProvider) Send(_ context.Context, method string, params []any) (provider.RPCResponse, error) {
	f.lastMethod = method
	f.lastParams = params
	if method == "transaction_v1_stop" {
		f.stopCalls++
	}
	return provider.RPCResponse{}, nil
}

func (f *fakeProvider) Subscribe(_ context.Context, method string, params []any, onCancel func()) (provider.Subscription, error) {
	f.lastMethod = method
	f.lastParams = params
	f.onCancel = onCancel
	return provider.Subscription{
		ID:          f.subID,
		Stream:      f.stream,
		Unsubscribe: onCancel,
	}, nil
}

func (f *fakeProvider) Connect(context.Context) error { return nil }
func (f *fakeProvider) Disconnect() error             { return nil }
func (f *fakeProvider) IsConnected() bool             { return true }
