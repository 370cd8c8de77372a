package chainhead

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/chapool/go-substrate-client/internal/provider"
	"github.com/chapool/go-substrate-client/internal/rpcerr"
	"github.com/chapool/go-substrate-client/internal/util"
)

// OpOutcome reports the result of issuing body/call/storage: either the
// operation started (carrying an operationId whose completion arrives on
// the event stream) or the server's concurrent-operation limit was hit.
type OpOutcome struct {
	Started      bool
	OperationID  string
	LimitReached bool
}

// StorageItem is one entry of a chainHead_v1_storage query (spec §6).
type StorageItem struct {
	Key  string `json:"key"`
	Type string `json:"type"`
}

// Session is a live chainHead_v1_follow subscription: the state machine
// of spec §4.6/§3, generalized from the teacher's chainScanner
// goroutine+channel loop (internal/wallet/scan/scanner.go) into an
// event-forwarding pump instead of a polling ticker.
type Session struct {
	p              provider.Provider
	subscriptionID string
	unsubscribe    func()

	mu     sync.Mutex
	active bool

	events chan Event
	done   chan struct{}

	metrics *Metrics
	log     *zerolog.Logger
}

// Follow opens a chainHead_v1_follow subscription and starts forwarding
// discriminated events to Session.Events(). The caller reads from Events
// until it closes (on a server `stop`, when the subscription stream ends,
// or after Unfollow/Unsubscribe); cancelling ctx does not close it. The
// logger attached to ctx (via util.WithLogger) is captured for the
// lifetime of the session, the way the teacher's handlers pull
// util.LogFromContext(ctx) once per request.
func Follow(ctx context.Context, p provider.Provider, withRuntime bool, metrics *Metrics) (*Session, error) {
	s := &Session{
		p:       p,
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
		metrics: metrics,
		log:     util.LogFromContext(ctx),
	}

	sub, err := p.Subscribe(ctx, "chainHead_v1_follow", []any{withRuntime}, s.onCancel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open chainHead_v1_follow subscription")
	}

	s.subscriptionID = sub.ID
	s.unsubscribe = sub.Unsubscribe
	s.active = true
	metrics.observeSessionStarted()

	go s.pump(sub)

	return s, nil
}

func (s *Session) pump(sub provider.Subscription) {
	defer close(s.events)

	for msg := range sub.Stream {
		event, err := parseEvent(msg.Result)
		if err != nil {
			s.log.Warn().Err(err).Str("subscription_id", s.subscriptionID).Msg("dropping unrecognized chainHead event")
			continue
		}

		s.metrics.observeEvent(event)

		if _, stopped := event.(Stop); stopped {
			s.markInactive()
			s.events <- event
			return
		}

		select {
		case s.events <- event:
		case <-s.done:
			return
		}
	}

	// Stream closed without a `stop` event: the transport dropped the
	// connection out from under the subscription (spec §9).
	s.markInactive()
	if sub.Err != nil {
		if err := sub.Err(); err != nil {
			s.log.Warn().Err(err).Str("subscription_id", s.subscriptionID).Msg("chainHead subscription stream closed unexpectedly")
		}
	}
}

// Events yields the session's typed event stream.
func (s *Session) Events() <-chan Event { return s.events }

// SubscriptionID returns the server-minted chainHead_v1_follow
// subscription id, required by chainHead_v1_* calls issued outside the
// session itself (e.g. chaindata.NewFetcher's Fetch).
func (s *Session) SubscriptionID() string { return s.subscriptionID }

// onCancel fires when Unsubscribe is called (spec §9: cancellation via
// transport hooks). It stops the pump and issues chainHead_v1_unfollow,
// mirroring broadcast.Submission.onCancel's Stop() call. Unfollow drives
// Unsubscribe itself, so issueUnfollow has usually already run by the
// time onCancel runs; the resulting SessionInactive is swallowed here
// (spec §4.6: unfollow is idempotent, a second issue is a silent no-op).
func (s *Session) onCancel() {
	close(s.done)
	if err := s.issueUnfollow(context.Background()); err != nil && !errors.Is(err, rpcerr.SessionInactive()) {
		s.log.Warn().Err(err).Str("subscription_id", s.subscriptionID).Msg("failed to issue chainHead_v1_unfollow during cancellation")
	}
}

func (s *Session) markInactive() {
	s.mu.Lock()
	wasActive := s.active
	s.active = false
	s.mu.Unlock()

	if wasActive {
		s.metrics.observeSessionEnded()
	}
}

func (s *Session) requireActive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return rpcerr.SessionInactive()
	}
	return nil
}

// Header returns the hex header for blockHash, or nil if the block is
// not pinned (spec §4.6).
func (s *Session) Header(ctx context.Context, blockHash string) (*string, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}

	resp, err := s.send(ctx, "chainHead_v1_header", []any{s.subscriptionID, blockHash})
	if err != nil {
		return nil, err
	}

	var header *string
	if err := json.Unmarshal(resp, &header); err != nil {
		return nil, errors.Wrap(err, "failed to decode header response")
	}

	return header, nil
}

// Body starts a body fetch for blockHash (spec §4.6).
func (s *Session) Body(ctx context.Context, blockHash string) (OpOutcome, error) {
	return s.startOperation(ctx, "chainHead_v1_body", blockHash)
}

// Call starts a runtime-call operation for blockHash (spec §4.6).
func (s *Session) Call(ctx context.Context, blockHash, function, paramsHex string) (OpOutcome, error) {
	if err := s.requireActive(); err != nil {
		return OpOutcome{}, err
	}

	resp, err := s.send(ctx, "chainHead_v1_call", []any{s.subscriptionID, blockHash, function, paramsHex})
	if err != nil {
		return OpOutcome{}, err
	}

	outcome, err := decodeOpOutcome(resp)
	if err == nil && outcome.Started {
		s.metrics.observeOperationStarted()
	}

	return outcome, err
}

// Storage starts a storage-query operation for blockHash (spec §4.6).
func (s *Session) Storage(ctx context.Context, blockHash string, items []StorageItem, childTrie *string) (OpOutcome, error) {
	if err := s.requireActive(); err != nil {
		return OpOutcome{}, err
	}

	resp, err := s.send(ctx, "chainHead_v1_storage", []any{s.subscriptionID, blockHash, items, childTrie})
	if err != nil {
		return OpOutcome{}, err
	}

	outcome, err := decodeOpOutcome(resp)
	if err == nil && outcome.Started {
		s.metrics.observeOperationStarted()
	}

	return outcome, err
}

// Unpin releases the server's retention promise on the given block
// hashes (spec §3, §4.6).
func (s *Session) Unpin(ctx context.Context, blockHashes []string) error {
	if err := s.requireActive(); err != nil {
		return err
	}

	_, err := s.send(ctx, "chainHead_v1_unpin", []any{s.subscriptionID, blockHashes})
	return err
}

// Unfollow issues chainHead_v1_unfollow and cancels the subscription via
// the same Subscription.Unsubscribe path a consumer cancelling the event
// stream would take (spec §9), so either trigger stops the pump and
// unregisters the subscription exactly once. It is idempotent: a second
// call is a silent no-op (spec §4.6, §8 property 8).
func (s *Session) Unfollow(ctx context.Context) error {
	err := s.issueUnfollow(ctx)
	if errors.Is(err, rpcerr.SessionInactive()) {
		return nil
	}
	s.unsubscribe()
	return err
}

// issueUnfollow sends chainHead_v1_unfollow the first time it is called
// for this session and reports SessionInactive on every call after, the
// guard both Unfollow and onCancel rely on to send the RPC exactly once
// regardless of which one runs first.
func (s *Session) issueUnfollow(ctx context.Context) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return rpcerr.SessionInactive()
	}
	s.active = false
	s.mu.Unlock()
	s.metrics.observeSessionEnded()

	_, err := s.p.Send(ctx, "chainHead_v1_unfollow", []any{s.subscriptionID})
	return err
}

func (s *Session) startOperation(ctx context.Context, method, blockHash string) (OpOutcome, error) {
	if err := s.requireActive(); err != nil {
		return OpOutcome{}, err
	}

	resp, err := s.send(ctx, method, []any{s.subscriptionID, blockHash})
	if err != nil {
		return OpOutcome{}, err
	}

	outcome, err := decodeOpOutcome(resp)
	if err == nil && outcome.Started {
		s.metrics.observeOperationStarted()
	}

	return outcome, err
}

func (s *Session) send(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	resp, err := s.p.Send(ctx, method, params)
	if err != nil {
		return nil, err
	}

	if resp.Error != nil {
		return nil, rpcerr.RPCError(resp.Error.Message, nil)
	}

	return resp.Result, nil
}

func decodeOpOutcome(raw json.RawMessage) (OpOutcome, error) {
	var wire struct {
		Result      string `json:"result"`
		OperationID string `json:"operationId"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return OpOutcome{}, errors.Wrap(err, "failed to decode operation response")
	}

	switch wire.Result {
	case "started":
		return OpOutcome{Started: true, OperationID: wire.OperationID}, nil
	case "limitReached":
		return OpOutcome{LimitReached: true}, nil
	default:
		return OpOutcome{}, errors.Errorf("unrecognized operation result %q", wire.Result)
	}
}
