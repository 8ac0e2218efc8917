package relay

import (
	"github.com/HiQain/Task-Manager/internal/types"
)

// forward queues env on the live connection of toUserId. Absent or
// saturated targets drop the envelope silently; the sender is never
// told. Per-sender ordering to a given recipient follows from the
// single buffered send queue per connection.
func (s *Server) forward(toUserId int, env *ServerEnvelope) bool {
	c := s.lookup(toUserId)
	if c == nil {
		s.stats.Incr("NumDroppedEnvelopes")
		return false
	}

	if !c.queueEnvelope(env) {
		s.stats.Incr("NumDroppedEnvelopes")
		return false
	}

	s.stats.Incr("NumRelayedEnvelopes")
	return true
}

func (s *Server) RelayTyping(fromUserId int, p TypingPayload) bool {
	return s.forward(p.ToUserId, TypingEnvelope(fromUserId, p.IsTyping))
}

func (s *Server) RelaySignal(fromUserId int, p SignalPayload) bool {
	return s.forward(p.ToUserId, SignalEnvelope(fromUserId, p.Signal))
}

// PushDirectMessage echoes a persisted direct message to the live
// connection of its recipient. The message is already durable, only the
// live ping is lost when the recipient is offline.
func (s *Server) PushDirectMessage(msg types.DirectMessage) bool {
	return s.forward(msg.ToUserId, MessageEnvelope(msg))
}

// PushTaskChanged sends a cache-invalidation ping; the client refetches
// whatever it cares about over REST.
func (s *Server) PushTaskChanged(userId, taskId int) bool {
	return s.forward(userId, TaskChangedEnvelope(taskId))
}

// PushNotify sends a toast-style notification to userId's connection.
func (s *Server) PushNotify(userId int, title, description, variant string) bool {
	if !s.forward(userId, NotifyEnvelope(title, description, variant)) {
		return false
	}

	s.stats.Incr("NumNotifications")
	return true
}
