package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListConversationsNoViewer(t *testing.T) {
	agg := NewAggregator(newMemRepo())

	conversations, err := agg.ListConversations(context.Background(), uuid.Nil)

	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestListConversationsNoMentorships(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	agg := NewAggregator(repo)

	conversations, err := agg.ListConversations(context.Background(), viewer)

	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestListConversationsNoMessagesYet(t *testing.T) {
	repo := newMemRepo()
	learner := repo.addUser("Learner")
	mentor := repo.addUser("Sarah Chen")
	repo.addMentorship(mentor, learner, "Web Development", "active")
	agg := NewAggregator(repo)

	conversations, err := agg.ListConversations(context.Background(), learner)

	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, mentor, conversations[0].CounterpartID)
	assert.Equal(t, "Sarah Chen", conversations[0].Name)
	assert.Equal(t, "Web Development", conversations[0].Skill)
	assert.Empty(t, conversations[0].LastMessage)
	assert.Nil(t, conversations[0].LastMessageAt)
	assert.Zero(t, conversations[0].UnreadCount)
}

func TestListConversationsDedupesCounterpart(t *testing.T) {
	repo := newMemRepo()
	learner := repo.addUser("Learner")
	mentor := repo.addUser("Mentor")
	repo.addMentorship(mentor, learner, "Guitar", "active")
	repo.addMentorship(mentor, learner, "Music Theory", "active")
	agg := NewAggregator(repo)

	conversations, err := agg.ListConversations(context.Background(), learner)

	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "Guitar", conversations[0].Skill)
}

func TestListConversationsSkipsEndedMentorships(t *testing.T) {
	repo := newMemRepo()
	learner := repo.addUser("Learner")
	active := repo.addUser("Active Mentor")
	ended := repo.addUser("Former Mentor")
	repo.addMentorship(active, learner, "Go", "active")
	repo.addMentorship(ended, learner, "Rust", "ended")
	agg := NewAggregator(repo)

	conversations, err := agg.ListConversations(context.Background(), learner)

	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, active, conversations[0].CounterpartID)
}

func TestListConversationsOrderAndUnread(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	older := repo.addUser("Older")
	newer := repo.addUser("Newer")
	silent := repo.addUser("Silent")
	repo.addMentorship(older, viewer, "Piano", "active")
	repo.addMentorship(newer, viewer, "Chess", "active")
	repo.addMentorship(silent, viewer, "Sketching", "active")

	base := time.Now()
	repo.addMessage(older, viewer, "old news", base.Add(-2*time.Hour))
	repo.addMessage(newer, viewer, "first", base.Add(-time.Hour))
	repo.addMessage(newer, viewer, "latest", base.Add(-time.Minute))

	agg := NewAggregator(repo)
	conversations, err := agg.ListConversations(context.Background(), viewer)

	require.NoError(t, err)
	require.Len(t, conversations, 3)
	assert.Equal(t, newer, conversations[0].CounterpartID)
	assert.Equal(t, "latest", conversations[0].LastMessage)
	assert.EqualValues(t, 2, conversations[0].UnreadCount)
	assert.Equal(t, older, conversations[1].CounterpartID)
	assert.EqualValues(t, 1, conversations[1].UnreadCount)
	assert.Equal(t, silent, conversations[2].CounterpartID)
	assert.Nil(t, conversations[2].LastMessageAt)
}

func TestListConversationsViewerAsMentor(t *testing.T) {
	repo := newMemRepo()
	mentor := repo.addUser("Mentor")
	learner := repo.addUser("Learner")
	repo.addMentorship(mentor, learner, "Cooking", "active")
	agg := NewAggregator(repo)

	conversations, err := agg.ListConversations(context.Background(), mentor)

	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, learner, conversations[0].CounterpartID)
}

func TestListConversationsMentorshipFetchFails(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	repo.listErr = errors.New("boom")
	agg := NewAggregator(repo)

	_, err := agg.ListConversations(context.Background(), viewer)

	assert.Error(t, err)
}

func TestListConversationsSubQueryFailureAbortsBatch(t *testing.T) {
	repo := newMemRepo()
	viewer := repo.addUser("Viewer")
	mentor := repo.addUser("Mentor")
	repo.addMentorship(mentor, viewer, "Go", "active")
	repo.subErr = errors.New("boom")
	agg := NewAggregator(repo)

	conversations, err := agg.ListConversations(context.Background(), viewer)

	assert.Error(t, err)
	assert.Nil(t, conversations)
}
