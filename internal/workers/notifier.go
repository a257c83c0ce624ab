package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

// notifyWorker runs notification creation off the request path: a content
// operation enqueues an event and moves on, and whatever goes wrong here
// stays here.
type notifyWorker struct {
	notifications domain.NotificationUsecase
	ch            chan domain.NotificationEvent
}

var _ domain.NotificationDispatcher = (*notifyWorker)(nil)

func NewNotifyWorker(notifications domain.NotificationUsecase) *notifyWorker {
	return &notifyWorker{
		notifications: notifications,
		ch:            make(chan domain.NotificationEvent, 256),
	}
}

// Send enqueues one event without blocking the caller.
func (w *notifyWorker) Send(ev domain.NotificationEvent) {
	select {
	case w.ch <- ev:
	default:
		logrus.Warnf("NotifyWorker's channel is full, %s notification for user %d dropped", ev.Type, ev.RecipientID)
	}
}

func (w *notifyWorker) Start(ctx context.Context) {
	for {
		select {
		case ev := <-w.ch:
			w.create(ctx, ev)
		case <-ctx.Done():
			logrus.Info("shutting down NotifyWorker, draining remaining events...")
			w.drain()
			return
		}
	}
}

func (w *notifyWorker) create(ctx context.Context, ev domain.NotificationEvent) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := w.notifications.Create(ctx, ev); err != nil {
		logrus.Errorf("failed to create %s notification for user %d: %v", ev.Type, ev.RecipientID, err)
	}
}

func (w *notifyWorker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case ev := <-w.ch:
			if _, err := w.notifications.Create(ctx, ev); err != nil {
				logrus.Errorf("failed to create %s notification for user %d: %v", ev.Type, ev.RecipientID, err)
			}
		default:
			return
		}
	}
}
