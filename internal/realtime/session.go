package realtime

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

const (
	// outboxSize bounds how many undelivered events a session may queue
	// before new ones are dropped.
	outboxSize = 64

	writeWait = 10 * time.Second
)

// frame is the wire shape of one realtime event.
type frame struct {
	Event domain.EventKind `json:"event"`
	Data  domain.Event     `json:"data"`
}

// command is what a client sends to manage its topic subscriptions.
type command struct {
	Action     string `json:"action"`
	QuestionID int64  `json:"questionId"`
}

// Session is one live connection's delivery channel.
type Session struct {
	id     string
	userID int64 // 0 when the connection is anonymous
	hub    *Hub
	conn   *websocket.Conn
	outbox chan frame
	done   chan struct{}
}

func newSession(hub *Hub, conn *websocket.Conn, userID int64) *Session {
	return &Session{
		id:     uuid.New().String(),
		userID: userID,
		hub:    hub,
		conn:   conn,
		outbox: make(chan frame, outboxSize),
		done:   make(chan struct{}),
	}
}

// deliver queues one event without ever blocking the publisher. A full
// outbox means this consumer is too slow; the event is dropped for it.
func (s *Session) deliver(ev domain.Event) {
	select {
	case s.outbox <- frame{Event: ev.Kind(), Data: ev}:
	case <-s.done:
	default:
		logrus.Warnf("session %s outbox full, event %s dropped", s.id, ev.Kind())
	}
}

func (s *Session) readPump() {
	defer func() {
		s.hub.DropChannel(s)
		close(s.done)
		_ = s.conn.Close()
		logrus.Infof("session %s disconnected", s.id)
	}()

	for {
		var cmd command
		if err := s.conn.ReadJSON(&cmd); err != nil {
			return
		}

		switch cmd.Action {
		case "join-question":
			s.hub.Subscribe(s, domain.QuestionTopic(cmd.QuestionID))
		case "leave-question":
			s.hub.Unsubscribe(s, domain.QuestionTopic(cmd.QuestionID))
		case "join-user":
			// A session may only watch its own notification feed.
			if s.userID == 0 {
				logrus.Warnf("session %s tried to join a user topic unauthenticated", s.id)
				continue
			}
			s.hub.Subscribe(s, domain.UserTopic(s.userID))
		case "leave-user":
			if s.userID != 0 {
				s.hub.Unsubscribe(s, domain.UserTopic(s.userID))
			}
		default:
			logrus.Warnf("session %s sent unknown action %q", s.id, cmd.Action)
		}
	}
}

func (s *Session) writePump() {
	for {
		select {
		case f := <-s.outbox:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(f); err != nil {
				logrus.Warnf("session %s write failed: %v", s.id, err)
				_ = s.conn.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// Authenticator resolves a bearer token to a user ID; it returns an error
// for a missing or invalid token.
type Authenticator func(token string) (int64, error)

// Manager upgrades HTTP requests into live sessions and wires their
// lifecycle to the hub.
type Manager struct {
	hub          *Hub
	authenticate Authenticator
	upgrader     websocket.Upgrader
}

func NewManager(hub *Hub, authenticate Authenticator) *Manager {
	return &Manager{
		hub:          hub,
		authenticate: authenticate,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS handles GET /ws. A valid token in the query string binds the
// session to a user; without one the session stays anonymous and can only
// watch question topics.
func (m *Manager) ServeWS(c *gin.Context) {
	var userID int64
	if token := c.Query("token"); token != "" {
		uid, err := m.authenticate(token)
		if err != nil {
			logrus.Warnf("websocket token rejected: %v", err)
		} else {
			userID = uid
		}
	}

	conn, err := m.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("failed to upgrade websocket: %v", err)
		return
	}

	s := newSession(m.hub, conn, userID)
	logrus.Infof("session %s connected (user %d)", s.id, userID)

	// Every viewer sees the home feed.
	m.hub.Subscribe(s, domain.TopicQuestionFeed)

	go s.writePump()
	s.readPump()
}
