package chat

import (
	"context"
	"sort"
	"sync"
	"time"

	"skillbridge/models"

	"github.com/google/uuid"
)

// memRepo is an in-memory Repository used by the package tests.
type memRepo struct {
	mu          sync.Mutex
	mentorships []models.Mentorship
	messages    []models.Message
	users       map[uuid.UUID]string

	listErr   error
	subErr    error
	loadErr   error
	insertErr error

	inserts    int
	markedRead []uuid.UUID

	// loadHook runs inside ConversationMessages before it returns, letting a
	// test interleave another selection with an in-flight load.
	loadHook func(counterpart uuid.UUID)
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[uuid.UUID]string)}
}

func (r *memRepo) addUser(name string) uuid.UUID {
	id := uuid.New()
	r.users[id] = name
	return id
}

func (r *memRepo) addMentorship(mentorID, learnerID uuid.UUID, skill, status string) {
	r.mentorships = append(r.mentorships, models.Mentorship{
		ID: uuid.New(), MentorID: mentorID, LearnerID: learnerID, Skill: skill, Status: status,
	})
}

func (r *memRepo) addMessage(senderID, receiverID uuid.UUID, content string, at time.Time) models.Message {
	msg := models.Message{
		ID: uuid.New(), SenderID: senderID, ReceiverID: receiverID,
		Content: content, CreatedAt: at,
	}
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
	return msg
}

func (r *memRepo) pairMessages(userA, userB uuid.UUID) []models.Message {
	var out []models.Message
	for _, m := range r.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *memRepo) ActiveMentorships(_ context.Context, viewerID uuid.UUID) ([]models.Mentorship, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Mentorship
	for _, m := range r.mentorships {
		if m.Status == "active" && (m.MentorID == viewerID || m.LearnerID == viewerID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRepo) HasActiveMentorship(_ context.Context, userA, userB uuid.UUID) (bool, error) {
	for _, m := range r.mentorships {
		if m.Status != "active" {
			continue
		}
		if (m.MentorID == userA && m.LearnerID == userB) || (m.MentorID == userB && m.LearnerID == userA) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) LatestMessage(_ context.Context, userA, userB uuid.UUID) (*models.Message, error) {
	if r.subErr != nil {
		return nil, r.subErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.pairMessages(userA, userB)
	if len(msgs) == 0 {
		return nil, nil
	}
	last := msgs[len(msgs)-1]
	return &last, nil
}

func (r *memRepo) CountUnread(_ context.Context, senderID, receiverID uuid.UUID) (int64, error) {
	if r.subErr != nil {
		return 0, r.subErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memRepo) ConversationMessages(_ context.Context, userA, userB uuid.UUID) ([]models.Message, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.loadHook != nil {
		r.loadHook(userB)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairMessages(userA, userB), nil
}

func (r *memRepo) MarkConversationRead(_ context.Context, senderID, receiverID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.IsRead {
			r.messages[i].IsRead = true
		}
	}
	return nil
}

func (r *memRepo) MarkMessageRead(_ context.Context, messageID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markedRead = append(r.markedRead, messageID)
	for i, m := range r.messages {
		if m.ID == messageID {
			r.messages[i].IsRead = true
		}
	}
	return nil
}

func (r *memRepo) InsertMessage(_ context.Context, msg *models.Message) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *memRepo) UserNames(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if name, ok := r.users[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}

func (r *memRepo) readMarks() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uuid.UUID, len(r.markedRead))
	copy(out, r.markedRead)
	return out
}
