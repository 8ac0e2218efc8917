package relay

import (
	"log"
	"slices"
	"sync"
	"time"

	"github.com/HiQain/Task-Manager/internal/stats"
)

// Server is the realtime relay: it tracks the single live connection
// per user, derives presence from registry membership and forwards
// typed envelopes between connections. Handlers run on per-connection
// goroutines, so the registry maps are guarded by a single mutex.
type Server struct {
	log   *log.Logger
	stats stats.StatsProvider

	mu      sync.Mutex
	clients map[int]*Client
	// lastSeen holds every user id ever registered. A zero time means
	// the user has never disconnected.
	lastSeen map[int]time.Time
}

func NewServer(logger *log.Logger, statsProvider stats.StatsProvider) (*Server, error) {
	s := &Server{
		log:      logger,
		stats:    statsProvider,
		clients:  make(map[int]*Client),
		lastSeen: make(map[int]time.Time),
	}

	s.stats.RegisterMetric("NumConnections")
	s.stats.RegisterMetric("NumRelayedEnvelopes")
	s.stats.RegisterMetric("NumDroppedEnvelopes")
	s.stats.RegisterMetric("NumNotifications")

	return s, nil
}

// Register stores c as the live connection for its user. A previous
// connection for the same user is superseded for routing but its socket
// is left open; its own disconnect becomes a no-op via the identity
// guard in Unregister. The new connection receives the full presence
// snapshot, every other connection receives an online event.
func (s *Server) Register(c *Client) {
	s.mu.Lock()
	prev := s.clients[c.user.Id]
	s.clients[c.user.Id] = c
	c.connectedAt = time.Now().UTC()
	if _, ok := s.lastSeen[c.user.Id]; !ok {
		s.lastSeen[c.user.Id] = time.Time{}
	}
	last := timePtr(s.lastSeen[c.user.Id])
	snapshot := s.snapshotLocked()
	others := s.othersLocked(c.user.Id)
	s.mu.Unlock()

	if prev != nil {
		s.log.Printf("connection for user %d superseded", c.user.Id)
		s.stats.Decr("NumConnections")
	}
	s.stats.Incr("NumConnections")

	c.queueEnvelope(SnapshotEnvelope(snapshot))

	env := PresenceEnvelope(c.user.Id, true, last)
	for _, o := range others {
		o.queueEnvelope(env)
	}
}

// Unregister removes c if it is still the live connection for its user.
// A stale disconnect from a superseded connection must not clear the
// newer one.
func (s *Server) Unregister(c *Client) {
	s.mu.Lock()
	cur, ok := s.clients[c.user.Id]
	if !ok || cur != c {
		s.mu.Unlock()
		s.log.Printf("ignoring stale disconnect for user %d", c.user.Id)
		return
	}

	delete(s.clients, c.user.Id)
	now := time.Now().UTC()
	s.lastSeen[c.user.Id] = now
	others := s.othersLocked(c.user.Id)
	s.mu.Unlock()

	s.stats.Decr("NumConnections")
	s.log.Printf("user %d disconnected", c.user.Id)

	env := PresenceEnvelope(c.user.Id, false, &now)
	for _, o := range others {
		o.queueEnvelope(env)
	}
}

func (s *Server) lookup(userId int) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients[userId]
}

// Online reports whether a live connection exists for userId.
func (s *Server) Online(userId int) bool {
	return s.lookup(userId) != nil
}

// Snapshot returns the presence of every user ever seen by the relay.
func (s *Server) Snapshot() []PresenceEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Server) snapshotLocked() []PresenceEntry {
	entries := make([]PresenceEntry, 0, len(s.lastSeen))
	for userId, seen := range s.lastSeen {
		_, online := s.clients[userId]
		entries = append(entries, PresenceEntry{
			UserId:     userId,
			IsOnline:   online,
			LastSeenAt: timePtr(seen),
		})
	}

	slices.SortFunc(entries, func(a, b PresenceEntry) int {
		return a.UserId - b.UserId
	})

	return entries
}

func (s *Server) othersLocked(userId int) []*Client {
	others := make([]*Client, 0, len(s.clients))
	for id, c := range s.clients {
		if id == userId {
			continue
		}
		others = append(others, c)
	}
	return others
}

// SetActiveRoom records which direct-conversation peer the connection
// is viewing. It only influences notification suppression, never
// routing. nil clears the room.
func (s *Server) SetActiveRoom(c *Client, peerId *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.activePeerId = peerId
}

// SetActiveTaskGroup is the task-group analogue of SetActiveRoom. The
// two fields are not mutually exclusive server-side.
func (s *Server) SetActiveTaskGroup(c *Client, taskId *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.activeTaskId = taskId
}

// ViewingDirect reports whether userId's live connection is currently
// viewing the direct conversation with peerId.
func (s *Server) ViewingDirect(userId, peerId int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[userId]
	return ok && c.activePeerId != nil && *c.activePeerId == peerId
}

// ViewingTask reports whether userId's live connection is currently
// viewing the group conversation of taskId.
func (s *Server) ViewingTask(userId, taskId int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[userId]
	return ok && c.activeTaskId != nil && *c.activeTaskId == taskId
}

// Shutdown stops every live connection. Each client unregisters itself
// as its read pump exits.
func (s *Server) Shutdown() {
	s.log.Println("shutting down relay")

	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.stopClient()
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
