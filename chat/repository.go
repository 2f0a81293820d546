package chat

import (
	"context"

	"skillbridge/models"

	"github.com/google/uuid"
)

// Repository is the data boundary of the messaging core. The rest of the
// package never touches the database directly, which keeps the aggregator,
// history and hub testable against an in-memory implementation.
type Repository interface {
	// ActiveMentorships returns every active mentorship where the viewer is
	// either the mentor or the learner.
	ActiveMentorships(ctx context.Context, viewerID uuid.UUID) ([]models.Mentorship, error)

	// HasActiveMentorship reports whether an active mentorship links the two
	// users, in either direction.
	HasActiveMentorship(ctx context.Context, userA, userB uuid.UUID) (bool, error)

	// LatestMessage returns the most recent message exchanged between the two
	// users, or nil when they have never messaged.
	LatestMessage(ctx context.Context, userA, userB uuid.UUID) (*models.Message, error)

	// CountUnread counts messages from sender to receiver that are still unread.
	CountUnread(ctx context.Context, senderID, receiverID uuid.UUID) (int64, error)

	// ConversationMessages returns all messages exchanged between the two
	// users, ascending by creation time.
	ConversationMessages(ctx context.Context, userA, userB uuid.UUID) ([]models.Message, error)

	// MarkConversationRead flags every unread message from sender to receiver
	// as read.
	MarkConversationRead(ctx context.Context, senderID, receiverID uuid.UUID) error

	// MarkMessageRead flags a single message as read.
	MarkMessageRead(ctx context.Context, messageID uuid.UUID) error

	InsertMessage(ctx context.Context, msg *models.Message) error

	// UserNames resolves display names for a set of user IDs.
	UserNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}
