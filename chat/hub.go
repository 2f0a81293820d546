package chat

import (
	"context"
	"log"
	"sync"
	"time"

	"skillbridge/models"

	"github.com/google/uuid"
)

// Conn is the transport a session writes events to. Satisfied by
// *websocket.Conn.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Event is the wire frame pushed to a connected client.
type Event struct {
	Type     string           `json:"type"`
	Message  *models.Message  `json:"message,omitempty"`
	Messages []models.Message `json:"messages,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Session is one viewer's live feed subscription. It owns the viewer's
// History; the selected counterpart decides which inbound messages are
// delivered over the connection.
type Session struct {
	ViewerID uuid.UUID
	Conn     Conn
	History  *History

	writeMu sync.Mutex
}

// Write sends one event down the connection. The hub's delivery loop and the
// session's own reader goroutine both respond on the same connection, and the
// underlying websocket forbids concurrent writers, so every outbound frame
// goes through this lock.
func (s *Session) Write(event Event) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.Conn.WriteJSON(event)
}

// Hub owns the single realtime subscription per viewer. Registering a new
// session for a viewer tears the previous one down first, so two live
// subscriptions for the same viewer never coexist. Inserted messages are
// routed to the receiver's session and delivered only when their sender is
// the session's selected counterpart; delivered messages get a
// fire-and-forget read receipt.
type Hub struct {
	repo Repository

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	Register   chan *Session
	Unregister chan *Session
	Broadcast  chan *models.Message
}

func NewHub(repo Repository) *Hub {
	return &Hub{
		repo:       repo,
		sessions:   make(map[uuid.UUID]*Session),
		Register:   make(chan *Session),
		Unregister: make(chan *Session),
		Broadcast:  make(chan *models.Message),
	}
}

// NewSession binds a connection to a viewer and a fresh history.
func (h *Hub) NewSession(viewerID uuid.UUID, conn Conn) *Session {
	return &Session{
		ViewerID: viewerID,
		Conn:     conn,
		History:  NewHistory(h.repo, viewerID),
	}
}

// Run serializes session registration and message delivery on one loop.
func (h *Hub) Run() {
	for {
		select {
		case session := <-h.Register:
			h.add(session)
		case session := <-h.Unregister:
			h.remove(session)
		case message := <-h.Broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) add(session *Session) {
	h.mu.Lock()
	old, ok := h.sessions[session.ViewerID]
	h.sessions[session.ViewerID] = session
	h.mu.Unlock()

	if ok && old.Conn != session.Conn {
		log.Printf("Replacing live subscription for viewer %s", session.ViewerID)
		old.Conn.Close()
	}
}

// remove drops the session only if it is still the viewer's current one, so
// an unregister racing a replacement cannot evict the newer session.
func (h *Hub) remove(session *Session) {
	h.mu.Lock()
	if current, ok := h.sessions[session.ViewerID]; ok && current == session {
		delete(h.sessions, session.ViewerID)
	}
	h.mu.Unlock()
}

func (h *Hub) deliver(message *models.Message) {
	h.mu.RLock()
	session, ok := h.sessions[message.ReceiverID]
	h.mu.RUnlock()
	if !ok {
		// Receiver has no live feed; the message surfaces as an unread count
		// on their next conversation listing.
		return
	}

	if session.History.Counterpart() != message.SenderID {
		// Not the conversation on screen; same as above.
		return
	}

	if !session.History.Append(*message) {
		return
	}

	if err := session.Write(Event{Type: "message", Message: message}); err != nil {
		log.Printf("Error delivering message to viewer %s: %v", message.ReceiverID, err)
		session.Conn.Close()
		h.remove(session)
		return
	}

	go h.acknowledge(message.ID)
}

func (h *Hub) acknowledge(messageID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.repo.MarkMessageRead(ctx, messageID); err != nil {
		log.Printf("Failed to mark message %s read: %v", messageID, err)
	}
}

// Connected reports whether a viewer currently holds a live subscription.
func (h *Hub) Connected(viewerID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sessions[viewerID]
	return ok
}
