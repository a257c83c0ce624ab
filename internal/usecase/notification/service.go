package notification

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/repository"
)

// service is the notification dispatcher and its read surface.
type service struct {
	notificationRepo domain.NotificationRepository
	userRepo         domain.UserRepository
	broadcaster      domain.Broadcaster
}

var _ domain.NotificationUsecase = (*service)(nil)

func NewService(notificationRepo domain.NotificationRepository, userRepo domain.UserRepository, broadcaster domain.Broadcaster) *service {
	return &service{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		broadcaster:      broadcaster,
	}
}

// Create persists the notification for the event and broadcasts it to the
// recipient's topic. A self-notification (sender == recipient) is skipped
// entirely: no row, no broadcast, (nil, nil) result.
func (s *service) Create(ctx context.Context, ev domain.NotificationEvent) (*domain.Notification, error) {
	if ev.SenderID != 0 && ev.SenderID == ev.RecipientID {
		return nil, nil
	}

	n := domain.Notification{
		Type:        ev.Type,
		Message:     ev.Message,
		RecipientID: ev.RecipientID,
		SenderID:    ev.SenderID,
		QuestionID:  ev.QuestionID,
		AnswerID:    ev.AnswerID,
	}
	if err := s.notificationRepo.Store(ctx, &n); err != nil {
		return nil, err
	}

	s.broadcaster.Publish(domain.UserTopic(n.RecipientID), domain.NewNotification{
		Type:       n.Type,
		Message:    n.Message,
		QuestionID: n.QuestionID,
	})

	return &n, nil
}

// ListForUser returns one page of the user's notifications plus the unread
// count; the two reads run concurrently.
func (s *service) ListForUser(ctx context.Context, userID, page, limit int64) ([]domain.Notification, int64, error) {
	repository.PageVerify(&page)
	repository.LimitVerify(&limit)

	var (
		notifications []domain.Notification
		unread        int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		notifications, err = s.notificationRepo.FetchByRecipient(gctx, userID, repository.Offset(page, limit), limit)
		return err
	})
	g.Go(func() error {
		var err error
		unread, err = s.notificationRepo.CountUnread(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if err := s.fillSenders(ctx, notifications); err != nil {
		// display data only, the page is still useful without it
		return notifications, unread, nil
	}
	return notifications, unread, nil
}

func (s *service) fillSenders(ctx context.Context, notifications []domain.Notification) error {
	idSet := make(map[int64]struct{})
	for i := range notifications {
		if notifications[i].SenderID != 0 {
			idSet[notifications[i].SenderID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[int64]domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = users[i]
	}
	for i := range notifications {
		if u, ok := byID[notifications[i].SenderID]; ok {
			sender := u
			notifications[i].Sender = &sender
		}
	}
	return nil
}

func (s *service) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

func (s *service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, id, userID int64) error {
	return s.notificationRepo.Delete(ctx, id, userID)
}
