package chainhead_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/go-substrate-client/internal/chainhead"
)

func TestHeaderReturnsHexOrNil(t *testing.T) {
	p := newFakeProvider("sub-5")
	session, err := chainhead.Follow(t.Context(), p, false, nil)
	require.NoError(t, err)

	p.queue("chainHead_v1_header", json.RawMessage(`"0xdeadbeef"`))
	header, err := session.Header(t.Context(), "0x01")
	require.NoError(t, err)
	require.NotNil(t, header)
	assert.Equal(t, "0xdeadbeef", *header)

	p.queue("chainHead_v1_header", json.RawMessage(`null`))
	header, err = session.Header(t.Context(), "0x02")
	require.NoError(t, err)
	assert.Nil(t, header)
}

func TestBodyStartedReturnsOperationID(t *testing.T) {
	p := newFakeProvider("sub-6")
	session, err := chainhead.Follow(t.Context(), p, false, nil)
	require.NoError(t, err)

	p.queue("chainHead_v1_body", json.RawMessage(`{"result":"started","operationId":"op-1"}`))
	outcome, err := session.Body(t.Context(), "0x01")
	require.NoError(t, err)
	assert.True(t, outcome.Started)
	assert.Equal(t, "op-1", outcome.OperationID)
}

func TestBodyLimitReached(t *testing.T) {
	p := newFakeProvider("sub-7")
	session, err := chainhead.Follow(t.Context(), p, false, nil)
	require.NoError(t, err)

	p.queue("chainHead_v1_body", json.RawMessage(`{"result":"limitReached"}`))
	outcome, err := session.Body(t.Context(), "0x01")
	require.NoError(t, err)
	assert.True(t, outcome.LimitReached)
	assert.False(t, outcome.Started)
}

// Session liveness (spec §8 property 8): after unfollow, every session
// operation fails with SessionInactive; a second unfollow is a no-op.
func TestSessionOperationsFailAfterUnfollow(t *testing.T) {
	p := newFakeProvider("sub-8")
	session, err := chainhead.Follow(t.Context(), p, false, nil)
	require.NoError(t, err)

	require.NoError(t, session.Unfollow(t.Context()))
	require.NoError(t, session.Unfollow(t.Context())) // idempotent

	_, err = session.Header(t.Context(), "0x01")
	assert.ErrorContains(t, err, "session_inactive")

	_, err = session.Body(t.Context(), "0x01")
	assert.ErrorContains(t, err, "session_inactive")

	_, err = session.Call(t.Context(), "0x01", "Metadata_metadata", "0x")
	assert.ErrorContains(t, err, "session_inactive")

	_, err = session.Storage(t.Context(), "0x01", nil, nil)
	assert.ErrorContains(t, err, "session_inactive")

	err = session.Unpin(t.Context(), []string{"0x01"})
	assert.ErrorContains(t, err, "session_inactive")
}
