package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/repository/mysql/model"
)

type notificationRepository struct {
	DB *gorm.DB
}

var _ domain.NotificationRepository = (*notificationRepository)(nil)

func NewNotificationRepository(db *gorm.DB) *notificationRepository {
	return &notificationRepository{
		DB: db,
	}
}

func (m *notificationRepository) Store(ctx context.Context, n *domain.Notification) error {
	notificationModel := model.NewNotificationFromDomain(n)
	result := m.DB.WithContext(ctx).Create(notificationModel)
	if result.Error != nil {
		return result.Error
	}
	n.ID = notificationModel.ID
	n.CreatedAt = notificationModel.CreatedAt
	return nil
}

func (m *notificationRepository) FetchByRecipient(ctx context.Context, recipientID, offset, limit int64) ([]domain.Notification, error) {
	var notifications []model.Notification
	err := m.DB.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Notification, len(notifications))
	for i := range notifications {
		res[i] = notifications[i].ToDomain()
	}
	return res, nil
}

func (m *notificationRepository) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	var total int64
	err := m.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&total).Error
	return total, err
}

// MarkRead only touches rows owned by recipientID, so a foreign id comes
// back as zero rows affected.
func (m *notificationRepository) MarkRead(ctx context.Context, id, recipientID int64) error {
	result := m.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrForbidden
	}
	return nil
}

func (m *notificationRepository) MarkAllRead(ctx context.Context, recipientID int64) error {
	return m.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}

func (m *notificationRepository) Delete(ctx context.Context, id, recipientID int64) error {
	result := m.DB.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&model.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrForbidden
	}
	return nil
}
