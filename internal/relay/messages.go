package relay

import (
	"encoding/json"
	"time"

	"github.com/HiQain/Task-Manager/internal/types"
)

// Envelope types accepted from clients.
const (
	TypeActiveRoom      = "chat:active-room"
	TypeActiveTaskGroup = "chat:active-task-group"
	TypeTyping          = "chat:typing"
	TypeWebRTCSignal    = "webrtc:signal"
)

// Envelope types pushed to clients.
const (
	TypePresence         = "chat:presence"
	TypePresenceSnapshot = "chat:presence-snapshot"
	TypeChatMessage      = "chat:message"
	TypeTaskChanged      = "task:changed"
	TypeNotify           = "notify"
)

// Envelope is the inbound wire frame. The payload is kept raw and only
// decoded once the type is known; anything that fails to decode is
// dropped without a response.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ServerEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type ActiveRoomPayload struct {
	ActiveUserId *int `json:"activeUserId"`
}

type ActiveTaskGroupPayload struct {
	ActiveTaskId *int `json:"activeTaskId"`
}

type TypingPayload struct {
	ToUserId int  `json:"toUserId"`
	IsTyping bool `json:"isTyping"`
}

// SignalPayload carries a WebRTC signal. The signal itself is opaque to
// the relay: offers, answers, ICE candidates, hangups and declines are
// forwarded verbatim and never inspected.
type SignalPayload struct {
	ToUserId int             `json:"toUserId"`
	Signal   json.RawMessage `json:"signal"`
}

type PresenceEntry struct {
	UserId     int        `json:"userId"`
	IsOnline   bool       `json:"isOnline"`
	LastSeenAt *time.Time `json:"lastSeenAt"`
}

type TypingEvent struct {
	FromUserId int  `json:"fromUserId"`
	IsTyping   bool `json:"isTyping"`
}

type SignalEvent struct {
	FromUserId int             `json:"fromUserId"`
	Signal     json.RawMessage `json:"signal"`
}

type MessageEvent struct {
	FromUserId int                 `json:"fromUserId"`
	Message    types.DirectMessage `json:"message"`
}

type TaskChangedEvent struct {
	TaskId int `json:"taskId,omitempty"`
}

type NotifyEvent struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Variant     string `json:"variant,omitempty"`
}

func PresenceEnvelope(userId int, isOnline bool, lastSeenAt *time.Time) *ServerEnvelope {
	return &ServerEnvelope{
		Type: TypePresence,
		Payload: PresenceEntry{
			UserId:     userId,
			IsOnline:   isOnline,
			LastSeenAt: lastSeenAt,
		},
	}
}

func SnapshotEnvelope(entries []PresenceEntry) *ServerEnvelope {
	return &ServerEnvelope{
		Type:    TypePresenceSnapshot,
		Payload: entries,
	}
}

func TypingEnvelope(fromUserId int, isTyping bool) *ServerEnvelope {
	return &ServerEnvelope{
		Type: TypeTyping,
		Payload: TypingEvent{
			FromUserId: fromUserId,
			IsTyping:   isTyping,
		},
	}
}

func SignalEnvelope(fromUserId int, signal json.RawMessage) *ServerEnvelope {
	return &ServerEnvelope{
		Type: TypeWebRTCSignal,
		Payload: SignalEvent{
			FromUserId: fromUserId,
			Signal:     signal,
		},
	}
}

func MessageEnvelope(msg types.DirectMessage) *ServerEnvelope {
	return &ServerEnvelope{
		Type: TypeChatMessage,
		Payload: MessageEvent{
			FromUserId: msg.FromUserId,
			Message:    msg,
		},
	}
}

func TaskChangedEnvelope(taskId int) *ServerEnvelope {
	return &ServerEnvelope{
		Type:    TypeTaskChanged,
		Payload: TaskChangedEvent{TaskId: taskId},
	}
}

func NotifyEnvelope(title, description, variant string) *ServerEnvelope {
	return &ServerEnvelope{
		Type: TypeNotify,
		Payload: NotifyEvent{
			Title:       title,
			Description: description,
			Variant:     variant,
		},
	}
}

func serializeEnvelope(env *ServerEnvelope) ([]byte, error) {
	return json.Marshal(env)
}
