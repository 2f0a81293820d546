package chat

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Conversation is a derived summary of the exchange with one counterpart.
// It is recomputed from mentorships and messages on every listing and is
// never persisted.
type Conversation struct {
	CounterpartID uuid.UUID  `json:"counterpart_id"`
	Name          string     `json:"name"`
	Skill         string     `json:"skill"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
	UnreadCount   int64      `json:"unread_count"`
}

// Aggregator derives a viewer's conversation list from their active
// mentorships, enriched with the latest message and unread count per
// counterpart.
type Aggregator struct {
	repo Repository
}

func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

// ListConversations returns one conversation per distinct counterpart the
// viewer holds an active mentorship with, ordered by most recent message.
// Counterparts with no messages yet sort last with an empty preview. An
// absent viewer yields an empty list without error; any failed lookup aborts
// the whole listing.
func (a *Aggregator) ListConversations(ctx context.Context, viewerID uuid.UUID) ([]Conversation, error) {
	if viewerID == uuid.Nil {
		return []Conversation{}, nil
	}

	mentorships, err := a.repo.ActiveMentorships(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	// Two mentorships with the same counterpart (different skills) collapse
	// into one conversation; the first skill label wins.
	seen := make(map[uuid.UUID]bool)
	conversations := make([]Conversation, 0, len(mentorships))
	for _, m := range mentorships {
		counterpartID := m.MentorID
		if m.MentorID == viewerID {
			counterpartID = m.LearnerID
		}
		if seen[counterpartID] {
			continue
		}
		seen[counterpartID] = true
		conversations = append(conversations, Conversation{
			CounterpartID: counterpartID,
			Skill:         m.Skill,
		})
	}

	if len(conversations) == 0 {
		return conversations, nil
	}

	ids := make([]uuid.UUID, len(conversations))
	for i, conv := range conversations {
		ids[i] = conv.CounterpartID
	}
	names, err := a.repo.UserNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range conversations {
		conv := &conversations[i]
		g.Go(func() error {
			latest, err := a.repo.LatestMessage(gctx, viewerID, conv.CounterpartID)
			if err != nil {
				return err
			}
			unread, err := a.repo.CountUnread(gctx, conv.CounterpartID, viewerID)
			if err != nil {
				return err
			}

			conv.Name = names[conv.CounterpartID]
			conv.UnreadCount = unread
			if latest != nil {
				conv.LastMessage = latest.Content
				at := latest.CreatedAt
				conv.LastMessageAt = &at
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i].LastMessageAt, conversations[j].LastMessageAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})

	return conversations, nil
}
