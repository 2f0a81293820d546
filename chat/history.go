package chat

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"

	"skillbridge/models"

	"github.com/google/uuid"
)

// ErrSuperseded is returned by Select when a newer selection was made while
// the load was still in flight. The late result has been discarded.
var ErrSuperseded = errors.New("chat: history load superseded by a newer selection")

// ErrNoSelection is returned by Send when no counterpart is selected.
var ErrNoSelection = errors.New("chat: no conversation selected")

// History holds the ordered message history between a viewer and the
// currently selected counterpart. It is owned by a single screen or socket
// session and is never shared across viewers.
type History struct {
	repo     Repository
	viewerID uuid.UUID

	mu          sync.Mutex
	counterpart uuid.UUID
	generation  uint64
	messages    []models.Message
}

func NewHistory(repo Repository, viewerID uuid.UUID) *History {
	return &History{repo: repo, viewerID: viewerID}
}

// Select switches the history to a new counterpart and loads the full
// exchange between the viewer and that counterpart, ascending by creation
// time. Unread messages from the counterpart are flagged read as a
// best-effort side effect of the load. If another Select happens while this
// load is in flight, the stale result is dropped and ErrSuperseded returned,
// so a slow response can never overwrite a newer conversation.
func (h *History) Select(ctx context.Context, counterpartID uuid.UUID) ([]models.Message, error) {
	h.mu.Lock()
	if h.counterpart != counterpartID {
		h.messages = nil
	}
	h.counterpart = counterpartID
	h.generation++
	gen := h.generation
	h.mu.Unlock()

	messages, err := h.repo.ConversationMessages(ctx, h.viewerID, counterpartID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	if h.generation != gen {
		h.mu.Unlock()
		return nil, ErrSuperseded
	}
	// Anything Appended while the load was in flight is re-applied on top of
	// the snapshot, so a realtime delivery racing a reload is never lost.
	// The ID dedupe makes re-applying messages the snapshot already has a
	// no-op.
	appended := h.messages
	h.messages = messages
	for _, msg := range appended {
		h.appendLocked(msg)
	}
	h.mu.Unlock()

	if err := h.repo.MarkConversationRead(ctx, counterpartID, h.viewerID); err != nil {
		log.Printf("Failed to mark conversation %s read for %s: %v", counterpartID, h.viewerID, err)
	}

	return h.Messages(), nil
}

// Send validates and persists a new message from the viewer to the selected
// counterpart. Empty or whitespace-only content is a silent no-op. The local
// history is not mutated on success; the authoritative copy arrives through
// the realtime feed or the next load.
func (h *History) Send(ctx context.Context, content string, attachmentURL *string) (*models.Message, error) {
	h.mu.Lock()
	counterpart := h.counterpart
	h.mu.Unlock()

	if counterpart == uuid.Nil {
		return nil, ErrNoSelection
	}

	msg := NewDirectMessage(h.viewerID, counterpart, content, attachmentURL)
	if msg == nil {
		return nil, nil
	}
	if err := h.repo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Append merges a realtime-delivered message into the history, keeping the
// sequence ordered by creation time. A message already present (same ID) is
// ignored, which makes the race between a manual reload and an in-flight
// realtime insert harmless. Reports whether the message was added.
func (h *History) Append(msg models.Message) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.appendLocked(msg)
}

func (h *History) appendLocked(msg models.Message) bool {
	for _, existing := range h.messages {
		if existing.ID == msg.ID {
			return false
		}
	}

	i := sort.Search(len(h.messages), func(i int) bool {
		return h.messages[i].CreatedAt.After(msg.CreatedAt)
	})
	h.messages = append(h.messages, models.Message{})
	copy(h.messages[i+1:], h.messages[i:])
	h.messages[i] = msg
	return true
}

// Messages returns a copy of the current history.
func (h *History) Messages() []models.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Counterpart returns the currently selected counterpart, or uuid.Nil.
func (h *History) Counterpart() uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counterpart
}

// NewDirectMessage builds an unread message from sender to receiver with
// trimmed content. It returns nil when the content is empty after trimming;
// callers treat that as a no-op rather than an error.
func NewDirectMessage(senderID, receiverID uuid.UUID, content string, attachmentURL *string) *models.Message {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}
	return &models.Message{
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Content:       trimmed,
		AttachmentURL: attachmentURL,
	}
}
