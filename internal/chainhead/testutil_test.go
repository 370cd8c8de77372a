package chainhead_test

import (
	"context"
	"encoding/json"

	"github.com/chapool/go-substrate-client/internal/provider"
)

// fakeProvider is a minimal Provider double: Subscribe returns a
// subscription whose stream is fed by the test, and Send dispatches to a
// per-method queue of canned responses.
type fakeProvider struct {
	subID     string
	stream    chan provider.SubscriptionMessage
	responses map[string][]json.RawMessage
	cancelled bool
}

func newFakeProvider(subID string) *fakeProvider {
	return &fakeProvider{
		subID:     subID,
		stream:    make(chan provider.SubscriptionMessage, 16),
		responses: map[string][]json.RawMessage{},
	}
}

func (f *fakeProvider) queue(method string, result json.RawMessage) {
	f.responses[method] = append(f.responses[method], result)
}

func (f *fakeProvider) Send(_ context.Context, method string, _ []any) (provider.RPCResponse, error) {
	queue := f.responses[method]
	if len(queue) == 0 {
		return provider.RPCResponse{Result: json.RawMessage(`null`)}, nil
	}
	result := queue[0]
	f.responses[method] = queue[1:]
	return provider.RPCResponse{Result: result}, nil
}

func (f *fakeProvider) Subscribe(_ context.Context, _ string, _ []any, onCancel func()) (provider.Subscription, error) {
	return provider.Subscription{
		ID:     f.subID,
		Stream: f.stream,
		Unsubscribe: func() {
			f.cancelled = true
			onCancel()
		},
	}, nil
}

func (f *fakeProvider) Connect(context.Context) error { return nil }
func (f *fakeProvider) Disconnect() error             { return nil }
func (f *fakeProvider) IsConnected() bool             { return true }

func (f *fakeProvider) emit(raw string) {
	f.stream <- provider.SubscriptionMessage{Result: json.RawMessage(raw)}
}

func (f *fakeProvider) closeStream() {
	close(f.stream)
}
