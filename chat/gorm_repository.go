package chat

import (
	"context"
	"errors"

	"skillbridge/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRepository backs the messaging core with Postgres.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) ActiveMentorships(ctx context.Context, viewerID uuid.UUID) ([]models.Mentorship, error) {
	var mentorships []models.Mentorship
	err := r.db.WithContext(ctx).
		Where("(mentor_id = ? OR learner_id = ?) AND status = ?", viewerID, viewerID, "active").
		Find(&mentorships).Error
	if err != nil {
		return nil, err
	}
	return mentorships, nil
}

func (r *GormRepository) HasActiveMentorship(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Mentorship{}).
		Where("status = ?", "active").
		Where("(mentor_id = ? AND learner_id = ?) OR (mentor_id = ? AND learner_id = ?)", userA, userB, userB, userA).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepository) LatestMessage(ctx context.Context, userA, userB uuid.UUID) (*models.Message, error) {
	var msg models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Order("created_at desc").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *GormRepository) CountUnread(ctx context.Context, senderID, receiverID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Count(&count).Error
	return count, err
}

func (r *GormRepository) ConversationMessages(ctx context.Context, userA, userB uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Order("created_at asc").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *GormRepository) MarkConversationRead(ctx context.Context, senderID, receiverID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true).Error
}

func (r *GormRepository) MarkMessageRead(ctx context.Context, messageID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ?", messageID).
		Update("is_read", true).Error
}

func (r *GormRepository) InsertMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *GormRepository) UserNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "full_name").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(users))
	for _, user := range users {
		names[user.ID] = user.FullName
	}
	return names, nil
}
