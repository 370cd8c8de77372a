package broadcast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/go-substrate-client/internal/broadcast"
)

func TestBroadcastHexEncodesExtrinsic(t *testing.T) {
	p := newFakeProvider("sub-bc-1")

	submission, err := broadcast.Broadcast(t.Context(), p, []byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)
	assert.Equal(t, "sub-bc-1", submission.OperationID)
	assert.Equal(t, "transaction_v1_broadcast", p.lastMethod)
	assert.Equal(t, []any{"0xdeadbeef"}, p.lastParams)
}

// Calling Stop twice issues transaction_v1_stop exactly once; the
// cancellation path (spec §8 property 9) is covered by the next test.
func TestRepeatedStopStopsExactlyOnce(t *testing.T) {
	p := newFakeProvider("sub-bc-2")

	submission, err := broadcast.Broadcast(t.Context(), p, []byte{0x01})
	require.NoError(t, err)

	require.NoError(t, submission.Stop(t.Context()))
	require.NoError(t, submission.Stop(t.Context()))

	assert.Equal(t, 1, p.stopCalls)
	assert.Equal(t, "transaction_v1_stop", p.lastMethod)
	assert.Equal(t, []any{"sub-bc-2"}, p.lastParams)
}

func TestExplicitStopAfterCancelDoesNotDoubleStop(t *testing.T) {
	p := newFakeProvider("sub-bc-3")

	submission, err := broadcast.Broadcast(t.Context(), p, []byte{0x02})
	require.NoError(t, err)

	p.onCancel()
	require.NoError(t, submission.Stop(t.Context()))

	assert.Equal(t, 1, p.stopCalls)
}
