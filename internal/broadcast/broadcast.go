// Package broadcast implements TransactionBroadcast (spec §2 C8): a thin
// stateful wrapper over transaction_v1_broadcast / transaction_v1_stop,
// generalized from the teacher's ProcessWithdraw submission flow
// (internal/wallet/withdraw/service.go) which builds, signs and submits
// a transaction through the chain client in one call.
package broadcast

import (
	"context"
	"encoding/hex"
	"sync"

	"github.com/pkg/errors"

	"github.com/chapool/go-substrate-client/internal/provider"
	"github.com/chapool/go-substrate-client/internal/util"
)

// Submission is a live broadcast: {operationId, stream} per spec §4.7,
// §3. It stays live until the consumer cancels the stream or calls Stop.
type Submission struct {
	OperationID string

	p      provider.Provider
	stream <-chan provider.SubscriptionMessage

	mu      sync.Mutex
	stopped bool
}

// Broadcast hex-encodes extrinsicBytes (with a 0x prefix), calls
// transaction_v1_broadcast, and returns the resulting Submission (spec
// §4.7).
func Broadcast(ctx context.Context, p provider.Provider, extrinsicBytes []byte) (*Submission, error) {
	hexData := "0x" + hex.EncodeToString(extrinsicBytes)

	s := &Submission{p: p}

	sub, err := p.Subscribe(ctx, "transaction_v1_broadcast", []any{hexData}, s.onCancel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open transaction_v1_broadcast subscription")
	}

	s.OperationID = sub.ID
	s.stream = sub.Stream

	util.LogFromContext(ctx).Info().Str("operation_id", s.OperationID).Int("extrinsic_bytes", len(extrinsicBytes)).Msg("broadcast submitted")

	return s, nil
}

// Results yields the submission's raw result stream.
func (s *Submission) Results() <-chan provider.SubscriptionMessage { return s.stream }

func (s *Submission) onCancel() {
	// The consumer cancelled the result stream (spec §9: "session
	// cancellation via transport hooks"). Issue the stop best-effort;
	// Stop itself also guards against a redundant call.
	_ = s.Stop(context.Background())
}

// Stop issues transaction_v1_stop for this submission. It is safe to call
// more than once; only the first call reaches the server (spec §8
// property 9: stop is issued exactly once).
func (s *Submission) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	_, err := s.p.Send(ctx, "transaction_v1_stop", []any{s.OperationID})
	return err
}
