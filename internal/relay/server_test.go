package relay

import (
	"fmt"
	"testing"
	"time"

	"github.com/HiQain/Task-Manager/internal/stats"
	"github.com/HiQain/Task-Manager/internal/testutil"
	"github.com/HiQain/Task-Manager/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// newTestServer creates a relay Server for testing purposes
func newTestServer(t *testing.T, su *stats.MockStatsUpdater) *Server {
	su.On("RegisterMetric", mock.Anything).Times(4)

	logger := testutil.TestLogger(t)
	s, err := NewServer(logger, su)
	if err != nil {
		t.Fatalf("failed to create test Server: %v", err)
	}
	return s
}

// newTestClient builds a client without a websocket connection; queued
// envelopes land on the buffered send channel for inspection.
func newTestClient(t *testing.T, userId int) *Client {
	return &Client{
		user: types.User{Id: userId, Username: fmt.Sprintf("user%d", userId)},
		send: make(chan *ServerEnvelope, 16),
		log:  testutil.TestLogger(t),
		stop: make(chan struct{}),
	}
}

// drain empties a client's send channel.
func drain(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

func TestNewServer(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	defer su.AssertExpectations(t)

	s := newTestServer(t, su)
	assert.NotNil(t, s, "expected Server to be non-nil")
	assert.NotNil(t, s.clients, "expected clients map to be initialized")
	assert.NotNil(t, s.lastSeen, "expected lastSeen map to be initialized")
}

func TestRegister_supersedes(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	su.On("Incr", "NumConnections").Twice()
	su.On("Decr", "NumConnections").Once()
	defer su.AssertExpectations(t)

	s := newTestServer(t, su)

	c1 := newTestClient(t, 1)
	c2 := newTestClient(t, 1)

	s.Register(c1)
	assert.Equal(t, c1, s.lookup(1), "expected first connection to be registered")

	s.Register(c2)
	assert.Equal(t, c2, s.lookup(1), "expected second connection to supersede the first")
}

func TestRegister_snapshotToNewConnectionOnly(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	su.On("Incr", "NumConnections").Twice()
	defer su.AssertExpectations(t)

	s := newTestServer(t, su)

	c1 := newTestClient(t, 1)
	s.Register(c1)

	// the first connection gets a snapshot containing only itself
	env := <-c1.send
	assert.Equal(t, TypePresenceSnapshot, env.Type, "expected snapshot envelope")
	entries := env.Payload.([]PresenceEntry)
	assert.Len(t, entries, 1, "expected snapshot to contain one entry")
	assert.Equal(t, 1, entries[0].UserId, "expected entry for user 1")
	assert.True(t, entries[0].IsOnline, "expected user 1 to be online")
	assert.Nil(t, entries[0].LastSeenAt, "expected no last seen for a user who never disconnected")

	c2 := newTestClient(t, 2)
	s.Register(c2)

	// user 1 receives a single presence event for user 2 coming online
	env = <-c1.send
	assert.Equal(t, TypePresence, env.Type, "expected presence envelope")
	entry := env.Payload.(PresenceEntry)
	assert.Equal(t, 2, entry.UserId, "expected presence event for user 2")
	assert.True(t, entry.IsOnline, "expected user 2 to be online")
	assert.Empty(t, c1.send, "expected no further envelopes for user 1")

	// user 2's snapshot includes user 1 as online
	env = <-c2.send
	assert.Equal(t, TypePresenceSnapshot, env.Type, "expected snapshot envelope")
	entries = env.Payload.([]PresenceEntry)
	assert.Len(t, entries, 2, "expected snapshot to contain both users")
	assert.Equal(t, 1, entries[0].UserId, "expected entry for user 1")
	assert.True(t, entries[0].IsOnline, "expected user 1 to be online")
	assert.Empty(t, c2.send, "expected no presence event for user 2's own registration")
}

func TestUnregister(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	su.On("Incr", "NumConnections").Twice()
	su.On("Decr", "NumConnections").Once()
	defer su.AssertExpectations(t)

	s := newTestServer(t, su)

	c1 := newTestClient(t, 1)
	c2 := newTestClient(t, 2)
	s.Register(c1)
	s.Register(c2)
	drain(c1)
	drain(c2)

	s.Unregister(c2)
	assert.Nil(t, s.lookup(2), "expected user 2 to be unregistered")

	env := <-c1.send
	assert.Equal(t, TypePresence, env.Type, "expected presence envelope")
	entry := env.Payload.(PresenceEntry)
	assert.Equal(t, 2, entry.UserId, "expected presence event for user 2")
	assert.False(t, entry.IsOnline, "expected user 2 to be offline")
	assert.NotNil(t, entry.LastSeenAt, "expected last seen timestamp to be set")
	assert.Empty(t, c1.send, "expected exactly one presence event")
}

func TestUnregister_staleConnectionIsNoOp(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	su.On("Incr", "NumConnections").Twice()
	su.On("Decr", "NumConnections").Once()
	defer su.AssertExpectations(t)

	s := newTestServer(t, su)

	c1 := newTestClient(t, 1)
	c2 := newTestClient(t, 1)
	s.Register(c1)
	s.Register(c2)

	// the superseded connection disconnecting must not clear the live one
	s.Unregister(c1)
	assert.Equal(t, c2, s.lookup(1), "expected live connection to survive a stale disconnect")
}

func TestSnapshot_includesDisconnectedUsers(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	su.On("Incr", "NumConnections").Twice()
	su.On("Decr", "NumConnections").Once()
	defer su.AssertExpectations(t)

	s := newTestServer(t, su)

	c1 := newTestClient(t, 1)
	s.Register(c1)
	s.Unregister(c1)

	c2 := newTestClient(t, 2)
	s.Register(c2)

	env := <-c2.send
	assert.Equal(t, TypePresenceSnapshot, env.Type, "expected snapshot envelope")
	entries := env.Payload.([]PresenceEntry)
	assert.Len(t, entries, 2, "expected snapshot to include the disconnected user")

	assert.Equal(t, 1, entries[0].UserId, "expected entry for user 1")
	assert.False(t, entries[0].IsOnline, "expected user 1 to be offline")
	assert.NotNil(t, entries[0].LastSeenAt, "expected last seen for user 1")

	assert.Equal(t, 2, entries[1].UserId, "expected entry for user 2")
	assert.True(t, entries[1].IsOnline, "expected user 2 to be online")
}

func TestSetActiveRoom(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	su.On("Incr", "NumConnections").Once()
	defer su.AssertExpectations(t)

	s := newTestServer(t, su)

	c := newTestClient(t, 1)
	s.Register(c)

	peer := 2
	s.SetActiveRoom(c, &peer)
	assert.True(t, s.ViewingDirect(1, 2), "expected user 1 to be viewing user 2")
	assert.False(t, s.ViewingDirect(1, 3), "expected user 1 not to be viewing user 3")

	// clearing twice leaves the router in the same state as clearing once
	s.SetActiveRoom(c, nil)
	assert.False(t, s.ViewingDirect(1, 2), "expected active room to be cleared")
	s.SetActiveRoom(c, nil)
	assert.False(t, s.ViewingDirect(1, 2), "expected clearing to be idempotent")
	assert.Nil(t, c.activePeerId, "expected active peer to be nil")
}

func TestSetActiveTaskGroup(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	su.On("Incr", "NumConnections").Once()
	defer su.AssertExpectations(t)

	s := newTestServer(t, su)

	c := newTestClient(t, 1)
	s.Register(c)

	taskId := 7
	s.SetActiveTaskGroup(c, &taskId)
	assert.True(t, s.ViewingTask(1, 7), "expected user 1 to be viewing task 7")

	// active room and active task group may both be set at once
	peer := 2
	s.SetActiveRoom(c, &peer)
	assert.True(t, s.ViewingTask(1, 7), "expected active task group to survive setting a room")
	assert.True(t, s.ViewingDirect(1, 2), "expected active room to be set")

	s.SetActiveTaskGroup(c, nil)
	assert.False(t, s.ViewingTask(1, 7), "expected active task group to be cleared")
}

func TestPresenceLifecycle(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	su.On("Incr", mock.Anything).Maybe()
	su.On("Decr", mock.Anything).Maybe()
	defer su.AssertExpectations(t)

	s := newTestServer(t, su)

	c1 := newTestClient(t, 1)
	c2 := newTestClient(t, 2)

	s.Register(c1)
	s.Register(c2)
	drain(c2)

	// user 1 sees user 2 come online
	<-c1.send // own snapshot
	env := <-c1.send
	assert.Equal(t, TypePresence, env.Type, "expected presence event for user 2")

	// typing indicator is relayed with the sender's id injected
	s.RelayTyping(1, TypingPayload{ToUserId: 2, IsTyping: true})
	env = <-c2.send
	assert.Equal(t, TypeTyping, env.Type, "expected typing envelope")
	typing := env.Payload.(TypingEvent)
	assert.Equal(t, 1, typing.FromUserId, "expected typing event from user 1")
	assert.True(t, typing.IsTyping, "expected isTyping to be true")

	// user 2 disconnects, user 1 receives offline presence with last seen
	before := time.Now().UTC()
	s.Unregister(c2)
	env = <-c1.send
	entry := env.Payload.(PresenceEntry)
	assert.Equal(t, 2, entry.UserId, "expected presence event for user 2")
	assert.False(t, entry.IsOnline, "expected user 2 to be offline")
	if assert.NotNil(t, entry.LastSeenAt, "expected last seen timestamp") {
		assert.False(t, entry.LastSeenAt.Before(before), "expected last seen to be set at disconnect time")
	}
}

func TestShutdown(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	su.On("Incr", "NumConnections").Twice()
	defer su.AssertExpectations(t)

	s := newTestServer(t, su)

	c1 := newTestClient(t, 1)
	c2 := newTestClient(t, 2)
	s.Register(c1)
	s.Register(c2)

	s.Shutdown()

	for _, c := range []*Client{c1, c2} {
		select {
		case <-c.stop:
			// stopped as expected
		default:
			t.Errorf("expected stop channel for user %d to be closed", c.user.Id)
		}
	}
}
