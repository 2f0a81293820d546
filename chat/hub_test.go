package chat

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	events []Event
	closed bool
	err    error
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, v.(Event))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) recorded() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func waitForMark(t *testing.T, repo *memRepo, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(repo.readMarks()) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d read receipts, got %d", want, len(repo.readMarks()))
}

func TestHubDeliversToSelectedConversation(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")
	repo.addMentorship(counterpart, viewer, "Go", "active")

	hub := NewHub(repo)
	conn := &fakeConn{}
	session := hub.NewSession(viewer, conn)
	hub.add(session)

	_, err := session.History.Select(context.Background(), counterpart)
	require.NoError(t, err)

	msg := repo.addMessage(counterpart, viewer, "Hello", time.Now())
	hub.deliver(&msg)

	events := conn.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "message", events[0].Type)
	assert.Equal(t, "Hello", events[0].Message.Content)
	assert.Equal(t, counterpart, events[0].Message.SenderID)

	held := session.History.Messages()
	require.Len(t, held, 1)
	assert.Equal(t, msg.ID, held[0].ID)

	waitForMark(t, repo, 1)
	assert.Equal(t, msg.ID, repo.readMarks()[0])
}

func TestHubIgnoresUnselectedSender(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	selected := repo.addUser("Selected")
	other := repo.addUser("Other")

	hub := NewHub(repo)
	conn := &fakeConn{}
	session := hub.NewSession(viewer, conn)
	hub.add(session)

	_, err := session.History.Select(context.Background(), selected)
	require.NoError(t, err)

	msg := repo.addMessage(other, viewer, "psst", time.Now())
	hub.deliver(&msg)

	assert.Empty(t, conn.recorded())
	assert.Empty(t, session.History.Messages())
	assert.Empty(t, repo.readMarks())

	// The ignored message still shows up as unread on the next aggregation.
	conversations := mustAggregate(t, repo, viewer, other, "Go")
	assert.EqualValues(t, 1, conversations[other])
}

func TestHubIgnoresDisconnectedReceiver(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	sender := repo.addUser("Sender")

	hub := NewHub(repo)
	msg := repo.addMessage(sender, viewer, "anyone home", time.Now())
	hub.deliver(&msg)

	assert.Empty(t, repo.readMarks())
}

func TestHubReplacesExistingSubscription(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")

	hub := NewHub(repo)
	oldConn := &fakeConn{}
	newConn := &fakeConn{}
	oldSession := hub.NewSession(viewer, oldConn)
	newSession := hub.NewSession(viewer, newConn)

	hub.add(oldSession)
	hub.add(newSession)

	assert.True(t, oldConn.closed)
	assert.True(t, hub.Connected(viewer))

	// A late unregister of the replaced session must not evict the new one.
	hub.remove(oldSession)
	assert.True(t, hub.Connected(viewer))

	hub.remove(newSession)
	assert.False(t, hub.Connected(viewer))
}

func TestHubDropsSessionOnWriteError(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")

	hub := NewHub(repo)
	conn := &fakeConn{err: assert.AnError}
	session := hub.NewSession(viewer, conn)
	hub.add(session)

	_, err := session.History.Select(context.Background(), counterpart)
	require.NoError(t, err)

	msg := repo.addMessage(counterpart, viewer, "Hello", time.Now())
	hub.deliver(&msg)

	assert.True(t, conn.closed)
	assert.False(t, hub.Connected(viewer))
	assert.Empty(t, repo.readMarks())
}

// overlapConn records whether two writers ever entered WriteJSON at the same
// time. It deliberately carries no lock of its own, like the real websocket
// connection.
type overlapConn struct {
	inflight   atomic.Int32
	overlapped atomic.Bool
	writes     atomic.Int32
}

func (c *overlapConn) WriteJSON(v interface{}) error {
	if c.inflight.Add(1) > 1 {
		c.overlapped.Store(true)
	}
	time.Sleep(time.Millisecond)
	c.inflight.Add(-1)
	c.writes.Add(1)
	return nil
}

func (c *overlapConn) Close() error { return nil }

func TestSessionSerializesConcurrentWrites(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	counterpart := repo.addUser("Counterpart")

	hub := NewHub(repo)
	conn := &overlapConn{}
	session := hub.NewSession(viewer, conn)
	hub.add(session)

	_, err := session.History.Select(context.Background(), counterpart)
	require.NoError(t, err)

	// Deliveries from the hub and responses from the reader goroutine race
	// for the same connection.
	const perSide = 20
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		base := time.Now()
		for i := 0; i < perSide; i++ {
			msg := repo.addMessage(counterpart, viewer, "ping", base.Add(time.Duration(i)*time.Millisecond))
			hub.deliver(&msg)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perSide; i++ {
			assert.NoError(t, session.Write(Event{Type: "sent"}))
		}
	}()
	wg.Wait()

	assert.False(t, conn.overlapped.Load(), "two goroutines wrote to the connection at once")
	assert.EqualValues(t, 2*perSide, conn.writes.Load())
}

// mustAggregate lists the viewer's conversations and returns unread counts
// keyed by counterpart, creating the mentorship if it does not exist yet.
func mustAggregate(t *testing.T, repo *memRepo, viewer, counterpart uuid.UUID, skill string) map[uuid.UUID]int64 {
	t.Helper()
	ok, err := repo.HasActiveMentorship(context.Background(), viewer, counterpart)
	require.NoError(t, err)
	if !ok {
		repo.addMentorship(counterpart, viewer, skill, "active")
	}
	conversations, err := NewAggregator(repo).ListConversations(context.Background(), viewer)
	require.NoError(t, err)
	counts := make(map[uuid.UUID]int64, len(conversations))
	for _, conv := range conversations {
		counts[conv.CounterpartID] = conv.UnreadCount
	}
	return counts
}
