package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillbridge/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistorySelectLoadsAscending(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")

	base := time.Now()
	// Inserted out of order on purpose.
	repo.addMessage(counterpart, viewer, "second", base.Add(2*time.Minute))
	repo.addMessage(viewer, counterpart, "first", base.Add(time.Minute))
	repo.addMessage(counterpart, viewer, "third", base.Add(3*time.Minute))

	h := NewHistory(repo, viewer)
	messages, err := h.Select(context.Background(), counterpart)

	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	assert.Equal(t, "third", messages[2].Content)
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
}

func TestHistorySelectMarksCounterpartMessagesRead(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")
	repo.addMessage(counterpart, viewer, "hello", time.Now())

	h := NewHistory(repo, viewer)
	_, err := h.Select(context.Background(), counterpart)
	require.NoError(t, err)

	unread, err := repo.CountUnread(context.Background(), counterpart, viewer)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestHistorySelectIdempotent(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")
	base := time.Now()
	repo.addMessage(viewer, counterpart, "a", base)
	repo.addMessage(counterpart, viewer, "b", base.Add(time.Second))

	h := NewHistory(repo, viewer)
	first, err := h.Select(context.Background(), counterpart)
	require.NoError(t, err)
	second, err := h.Select(context.Background(), counterpart)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHistorySelectReplacesPreviousCounterpart(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	alice := repo.addUser("Alice")
	bob := repo.addUser("Bob")
	repo.addMessage(alice, viewer, "from alice", time.Now())
	repo.addMessage(bob, viewer, "from bob", time.Now())

	h := NewHistory(repo, viewer)

	_, err := h.Select(context.Background(), alice)
	require.NoError(t, err)
	messages, err := h.Select(context.Background(), bob)
	require.NoError(t, err)

	require.Len(t, messages, 1)
	assert.Equal(t, "from bob", messages[0].Content)
}

func TestHistoryStaleLoadDiscarded(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	alice := repo.addUser("Alice")
	bob := repo.addUser("Bob")
	repo.addMessage(alice, viewer, "from alice", time.Now())
	repo.addMessage(bob, viewer, "from bob", time.Now())

	h := NewHistory(repo, viewer)

	var bobMessages []models.Message
	repo.loadHook = func(counterpart uuid.UUID) {
		if counterpart != alice {
			return
		}
		// Select Bob while Alice's load is still in flight.
		repo.loadHook = nil
		var err error
		bobMessages, err = h.Select(context.Background(), bob)
		require.NoError(t, err)
	}

	_, err := h.Select(context.Background(), alice)

	assert.ErrorIs(t, err, ErrSuperseded)
	require.Len(t, bobMessages, 1)
	assert.Equal(t, "from bob", bobMessages[0].Content)
	// The final history is Bob's, never a merge of both.
	held := h.Messages()
	require.Len(t, held, 1)
	assert.Equal(t, "from bob", held[0].Content)
}

func TestHistorySelectLoadFailure(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")
	repo.loadErr = errors.New("boom")

	h := NewHistory(repo, viewer)
	_, err := h.Select(context.Background(), counterpart)

	assert.Error(t, err)
	assert.Empty(t, h.Messages())
}

func TestHistorySendWhitespaceIsNoOp(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")

	h := NewHistory(repo, viewer)
	_, err := h.Select(context.Background(), counterpart)
	require.NoError(t, err)

	msg, err := h.Send(context.Background(), "   ", nil)

	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Zero(t, repo.inserts)
	assert.Empty(t, h.Messages())
}

func TestHistorySendTrimsAndInserts(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")

	h := NewHistory(repo, viewer)
	_, err := h.Select(context.Background(), counterpart)
	require.NoError(t, err)

	msg, err := h.Send(context.Background(), "  hello there  ", nil)

	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "hello there", msg.Content)
	assert.Equal(t, viewer, msg.SenderID)
	assert.Equal(t, counterpart, msg.ReceiverID)
	assert.False(t, msg.IsRead)
	assert.Equal(t, 1, repo.inserts)
	// Not optimistically appended; the copy arrives via realtime or reload.
	assert.Empty(t, h.Messages())
}

func TestHistorySendWithoutSelection(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")

	h := NewHistory(repo, viewer)
	_, err := h.Send(context.Background(), "hello", nil)

	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestHistorySendInsertFailure(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")

	h := NewHistory(repo, viewer)
	_, err := h.Select(context.Background(), counterpart)
	require.NoError(t, err)

	repo.insertErr = errors.New("boom")
	_, err = h.Send(context.Background(), "hello", nil)

	assert.Error(t, err)
	assert.Empty(t, h.Messages())
}

func TestHistorySelectKeepsMessageAppendedDuringLoad(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")
	base := time.Now()
	repo.addMessage(counterpart, viewer, "loaded", base)

	h := NewHistory(repo, viewer)
	_, err := h.Select(context.Background(), counterpart)
	require.NoError(t, err)

	// A realtime delivery lands while a reload of the same conversation is
	// in flight, and its insert is not yet visible to the snapshot query.
	live := models.Message{
		ID: uuid.New(), SenderID: counterpart, ReceiverID: viewer,
		Content: "live", CreatedAt: base.Add(time.Second),
	}
	repo.loadHook = func(uuid.UUID) {
		repo.loadHook = nil
		require.True(t, h.Append(live))
	}

	messages, err := h.Select(context.Background(), counterpart)

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "loaded", messages[0].Content)
	assert.Equal(t, "live", messages[1].Content)
}

func TestHistoryAppendKeepsTimestampOrder(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")

	h := NewHistory(repo, viewer)
	_, err := h.Select(context.Background(), counterpart)
	require.NoError(t, err)

	base := time.Now()
	second := models.Message{ID: uuid.New(), SenderID: counterpart, ReceiverID: viewer, Content: "t2", CreatedAt: base.Add(2 * time.Second)}
	first := models.Message{ID: uuid.New(), SenderID: counterpart, ReceiverID: viewer, Content: "t1", CreatedAt: base.Add(time.Second)}

	// Network completion order is t2 then t1; display order must stay t1, t2.
	assert.True(t, h.Append(second))
	assert.True(t, h.Append(first))

	messages := h.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "t1", messages[0].Content)
	assert.Equal(t, "t2", messages[1].Content)
}

func TestHistoryAppendDedupesByID(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")
	msg := repo.addMessage(counterpart, viewer, "hello", time.Now())

	h := NewHistory(repo, viewer)
	_, err := h.Select(context.Background(), counterpart)
	require.NoError(t, err)

	// The realtime copy of an already-loaded message is a no-op.
	assert.False(t, h.Append(msg))
	assert.Len(t, h.Messages(), 1)
}

func TestNewDirectMessageValidation(t *testing.T) {
	sender, receiver := uuid.New(), uuid.New()

	assert.Nil(t, NewDirectMessage(sender, receiver, "", nil))
	assert.Nil(t, NewDirectMessage(sender, receiver, " \t\n ", nil))

	msg := NewDirectMessage(sender, receiver, " hi ", nil)
	require.NotNil(t, msg)
	assert.Equal(t, "hi", msg.Content)
}
