package ethrpcprovider

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/chapool/go-substrate-client/internal/provider"
)

// wireMessage is either a plain JSON-RPC response (ID set) or a
// subscription notification (Method set, Params carrying the
// subscription id and the event payload).
type wireMessage struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Method string `json:"method"`
	Params *struct {
		Subscription string          `json:"subscription"`
		Result       json.RawMessage `json:"result"`
	} `json:"params"`
}

type pendingResponse struct {
	result json.RawMessage
	err    error
}

// notifyDemux dispatches incoming websocket frames either to the
// goroutine awaiting a subscribe call's response, or to the channel
// registered for an already-open subscription's notifications. This is
// the piece go-ethereum/rpc.Client's own demuxer cannot provide for
// non-eth-shaped subscription protocols (see package doc).
type notifyDemux struct {
	mu       sync.Mutex
	waiting  map[string]chan pendingResponse
	subs     map[string]chan provider.SubscriptionMessage
	closeErr error
}

func newNotifyDemux() *notifyDemux {
	return &notifyDemux{
		waiting: make(map[string]chan pendingResponse),
		subs:    make(map[string]chan provider.SubscriptionMessage),
	}
}

func (d *notifyDemux) awaitResponse(requestID string) <-chan pendingResponse {
	ch := make(chan pendingResponse, 1)

	d.mu.Lock()
	d.waiting[requestID] = ch
	d.mu.Unlock()

	return ch
}

func (d *notifyDemux) cancelAwait(requestID string) {
	d.mu.Lock()
	delete(d.waiting, requestID)
	d.mu.Unlock()
}

func (d *notifyDemux) registerSubscription(subID string) <-chan provider.SubscriptionMessage {
	ch := make(chan provider.SubscriptionMessage, 64)

	d.mu.Lock()
	d.subs[subID] = ch
	d.mu.Unlock()

	return ch
}

func (d *notifyDemux) unregisterSubscription(subID string) {
	d.mu.Lock()
	ch, ok := d.subs[subID]
	if ok {
		delete(d.subs, subID)
	}
	d.mu.Unlock()

	if ok {
		close(ch)
	}
}

// err returns the error that ended pump, if any, for Subscription.Err.
func (d *notifyDemux) err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeErr
}

// closeAll records err as the terminal error and closes every live
// subscription channel, so a consumer blocked on Stream learns the
// connection is gone instead of hanging forever.
func (d *notifyDemux) closeAll(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closeErr = err

	for id, ch := range d.subs {
		close(ch)
		delete(d.subs, id)
	}
	for id, ch := range d.waiting {
		ch <- pendingResponse{err: err}
		delete(d.waiting, id)
	}
}

// pump reads frames off ws until it closes, dispatching each to the
// matching waiter or subscription channel.
func (d *notifyDemux) pump(ws *websocket.Conn) {
	for {
		var msg wireMessage
		if err := ws.ReadJSON(&msg); err != nil {
			log.Warn().Err(err).Msg("websocket read failed, demuxer stopping for this connection")
			d.closeAll(errors.Wrap(err, "websocket connection closed"))
			return
		}

		switch {
		case msg.ID != "":
			d.deliverResponse(msg)
		case msg.Method != "" && msg.Params != nil:
			d.deliverNotification(msg)
		default:
			log.Warn().Msg("dropping unrecognized websocket frame")
		}
	}
}

func (d *notifyDemux) deliverResponse(msg wireMessage) {
	d.mu.Lock()
	ch, ok := d.waiting[msg.ID]
	if ok {
		delete(d.waiting, msg.ID)
	}
	d.mu.Unlock()

	if !ok {
		return
	}

	if msg.Error != nil {
		ch <- pendingResponse{err: errors.Errorf("%s (code %d)", msg.Error.Message, msg.Error.Code)}
		return
	}

	ch <- pendingResponse{result: msg.Result}
}

func (d *notifyDemux) deliverNotification(msg wireMessage) {
	d.mu.Lock()
	ch, ok := d.subs[msg.Params.Subscription]
	d.mu.Unlock()

	if !ok {
		return
	}

	ch <- provider.SubscriptionMessage{
		Method:       msg.Method,
		Subscription: msg.Params.Subscription,
		Result:       msg.Params.Result,
	}
}
