package notification_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/usecase/notification"
)

type memNotificationRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{rows: make(map[int64]domain.Notification)}
}

func (r *memNotificationRepo) Store(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	r.rows[n.ID] = *n
	return nil
}

func (r *memNotificationRepo) FetchByRecipient(_ context.Context, recipientID, offset, limit int64) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.rows {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) CountUnread(_ context.Context, recipientID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.RecipientID == recipientID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id, recipientID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.RecipientID != recipientID {
		return domain.ErrForbidden
	}
	row.IsRead = true
	r.rows[id] = row
	return nil
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context, recipientID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.RecipientID == recipientID {
			row.IsRead = true
			r.rows[id] = row
		}
	}
	return nil
}

func (r *memNotificationRepo) Delete(_ context.Context, id, recipientID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.RecipientID != recipientID {
		return domain.ErrForbidden
	}
	delete(r.rows, id)
	return nil
}

type stubUserRepo struct {
	users map[int64]domain.User
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Insert(context.Context, *domain.User) error { return nil }

func (r *stubUserRepo) GetByUsername(context.Context, string) (domain.User, error) {
	return domain.User{}, domain.ErrNotFound
}

func (r *stubUserRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	topics []string
	events []domain.Event
}

func (b *recordingBroadcaster) Publish(topic string, ev domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, topic)
	b.events = append(b.events, ev)
}

func newNotificationService() (domain.NotificationUsecase, *memNotificationRepo, *recordingBroadcaster) {
	repo := newMemNotificationRepo()
	users := &stubUserRepo{users: map[int64]domain.User{
		2: {ID: 2, Username: "alice"},
	}}
	broadcaster := &recordingBroadcaster{}
	return notification.NewService(repo, users, broadcaster), repo, broadcaster
}

func TestCreateStoresAndBroadcasts(t *testing.T) {
	svc, repo, broadcaster := newNotificationService()

	n, err := svc.Create(context.Background(), domain.NotificationEvent{
		Type:        domain.NotificationAnswerCreated,
		Message:     `alice answered your question: "How do goroutines work?"`,
		RecipientID: 1,
		SenderID:    2,
		QuestionID:  10,
		AnswerID:    20,
	})
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.NotZero(t, n.ID)
	assert.False(t, n.IsRead)

	unread, err := repo.CountUnread(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, domain.UserTopic(1), broadcaster.topics[0])
	ev, ok := broadcaster.events[0].(domain.NewNotification)
	require.True(t, ok)
	assert.Equal(t, domain.NotificationAnswerCreated, ev.Type)
	assert.Equal(t, int64(10), ev.QuestionID)
}

func TestCreateSkipsSelfNotification(t *testing.T) {
	svc, repo, broadcaster := newNotificationService()

	n, err := svc.Create(context.Background(), domain.NotificationEvent{
		Type:        domain.NotificationAnswerCreated,
		RecipientID: 2,
		SenderID:    2,
	})
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, repo.rows)
	assert.Empty(t, broadcaster.events)
}

func TestCreateSystemEventNotSuppressed(t *testing.T) {
	svc, repo, _ := newNotificationService()

	// SenderID 0 means no acting user; recipient 0 never matches it.
	n, err := svc.Create(context.Background(), domain.NotificationEvent{
		Type:        domain.NotificationAnswerCreated,
		RecipientID: 1,
		SenderID:    0,
	})
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Len(t, repo.rows, 1)
}

func TestListForUserFillsSenders(t *testing.T) {
	svc, _, _ := newNotificationService()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.NotificationEvent{
		Type:        domain.NotificationAnswerCreated,
		RecipientID: 1,
		SenderID:    2,
	})
	require.NoError(t, err)

	list, unread, err := svc.ListForUser(ctx, 1, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Sender)
	assert.Equal(t, "alice", list[0].Sender.Username)
}

func TestMarkReadOwnership(t *testing.T) {
	svc, _, _ := newNotificationService()
	ctx := context.Background()

	n, err := svc.Create(ctx, domain.NotificationEvent{
		Type:        domain.NotificationAnswerCreated,
		RecipientID: 1,
		SenderID:    2,
	})
	require.NoError(t, err)

	// Someone else's id does not flip the flag.
	err = svc.MarkRead(ctx, n.ID, 99)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.MarkRead(ctx, n.ID, 1)
	require.NoError(t, err)

	_, unread, err := svc.ListForUser(ctx, 1, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestDeleteOwnership(t *testing.T) {
	svc, repo, _ := newNotificationService()
	ctx := context.Background()

	n, err := svc.Create(ctx, domain.NotificationEvent{
		Type:        domain.NotificationAnswerCreated,
		RecipientID: 1,
		SenderID:    2,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, n.ID, 99)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, repo.rows, 1)

	err = svc.Delete(ctx, n.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, repo.rows)
}

func TestMarkAllRead(t *testing.T) {
	svc, _, _ := newNotificationService()
	ctx := context.Background()

	for n := 0; n < 3; n++ {
		_, err := svc.Create(ctx, domain.NotificationEvent{
			Type:        domain.NotificationAnswerCreated,
			RecipientID: 1,
			SenderID:    2,
		})
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllRead(ctx, 1))

	_, unread, err := svc.ListForUser(ctx, 1, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
