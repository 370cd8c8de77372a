package ethrpcprovider

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliverResponseRoutesToWaiter(t *testing.T) {
	d := newNotifyDemux()

	waitCh := d.awaitResponse("req-1")
	d.deliverResponse(wireMessage{ID: "req-1", Result: json.RawMessage(`"sub-abc"`)})

	resp := <-waitCh
	require.NoError(t, resp.err)
	assert.JSONEq(t, `"sub-abc"`, string(resp.result))
}

func TestDeliverResponseErrorPropagates(t *testing.T) {
	d := newNotifyDemux()

	waitCh := d.awaitResponse("req-2")
	d.deliverResponse(wireMessage{ID: "req-2", Error: &struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}{Code: -32000, Message: "boom"}})

	resp := <-waitCh
	assert.ErrorContains(t, resp.err, "boom")
}

func TestDeliverNotificationRoutesToSubscription(t *testing.T) {
	d := newNotifyDemux()

	stream := d.registerSubscription("sub-1")

	d.deliverNotification(wireMessage{
		Method: "chainHead_v1_followEvent",
		Params: &struct {
			Subscription string          `json:"subscription"`
			Result       json.RawMessage `json:"result"`
		}{Subscription: "sub-1", Result: json.RawMessage(`{"event":"stop"}`)},
	})

	msg := <-stream
	assert.Equal(t, "sub-1", msg.Subscription)
	assert.JSONEq(t, `{"event":"stop"}`, string(msg.Result))
}

func TestUnregisterSubscriptionClosesChannel(t *testing.T) {
	d := newNotifyDemux()

	stream := d.registerSubscription("sub-2")
	d.unregisterSubscription("sub-2")

	_, open := <-stream
	assert.False(t, open)
}

func TestCloseAllClosesLiveSubscriptionsAndRecordsErr(t *testing.T) {
	d := newNotifyDemux()

	stream := d.registerSubscription("sub-3")
	waitCh := d.awaitResponse("req-3")

	closeErr := errors.New("websocket connection closed")
	d.closeAll(closeErr)

	_, open := <-stream
	assert.False(t, open)

	resp := <-waitCh
	assert.ErrorIs(t, resp.err, closeErr)

	assert.ErrorIs(t, d.err(), closeErr)
}

func TestCloseAllIsSafeWithNoLiveState(t *testing.T) {
	d := newNotifyDemux()

	assert.NotPanics(t, func() { d.closeAll(errors.New("boom")) })
	assert.ErrorContains(t, d.err(), "boom")
}
