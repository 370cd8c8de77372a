package chainhead_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapool/go-substrate-client/internal/chainhead"
)

// S6: follow then an initialized event yields one typed Initialized
// event (spec §8 scenario S6).
func TestFollowThenInitialized(t *testing.T) {
	p := newFakeProvider("sub-1")
	session, err := chainhead.Follow(t.Context(), p, true, nil)
	require.NoError(t, err)

	p.emit(`{"event":"initialized","finalizedBlockHash":"0xabc123"}`)

	event := <-session.Events()
	init, ok := event.(chainhead.Initialized)
	require.True(t, ok)
	assert.Equal(t, "0xabc123", init.FinalizedBlockHash)
}

func TestInitializedFallsBackToFirstHashesEntry(t *testing.T) {
	p := newFakeProvider("sub-2")
	session, err := chainhead.Follow(t.Context(), p, false, nil)
	require.NoError(t, err)

	p.emit(`{"event":"initialized","finalizedBlockHashes":["0x01","0x02"]}`)

	event := <-session.Events()
	init, ok := event.(chainhead.Initialized)
	require.True(t, ok)
	assert.Equal(t, "0x01", init.FinalizedBlockHash)
}

func TestUnknownEventTagIsDropped(t *testing.T) {
	p := newFakeProvider("sub-3")
	session, err := chainhead.Follow(t.Context(), p, false, nil)
	require.NoError(t, err)

	p.emit(`{"event":"somethingNovel"}`)
	p.emit(`{"event":"bestBlockChanged","bestBlockHash":"0xdef"}`)

	event := <-session.Events()
	best, ok := event.(chainhead.BestBlockChanged)
	require.True(t, ok)
	assert.Equal(t, "0xdef", best.BestBlockHash)
}

func TestStopEventMarksSessionInactive(t *testing.T) {
	p := newFakeProvider("sub-4")
	session, err := chainhead.Follow(t.Context(), p, false, nil)
	require.NoError(t, err)

	p.emit(`{"event":"stop"}`)

	event := <-session.Events()
	_, ok := event.(chainhead.Stop)
	require.True(t, ok)

	_, err = session.Header(t.Context(), "0x01")
	assert.ErrorContains(t, err, "session_inactive")
}
