package domain

import (
	"context"
	"time"
)

// NotificationType enumerates the content events that produce notifications.
type NotificationType string

const (
	NotificationAnswerCreated NotificationType = "answer-created"
)

// Notification is a persistent message for one recipient.
type Notification struct {
	ID          int64
	Type        NotificationType
	Message     string
	RecipientID int64
	SenderID    int64 // 0 when the event has no acting user
	QuestionID  int64 // 0 when not tied to a question
	AnswerID    int64 // 0 when not tied to an answer
	IsRead      bool
	CreatedAt   time.Time

	// Sender is filled on reads for display, never persisted inline.
	Sender *User
}

// NotificationEvent is the input to the dispatcher: a content event that
// may become a notification.
type NotificationEvent struct {
	Type        NotificationType
	Message     string
	RecipientID int64
	SenderID    int64
	QuestionID  int64
	AnswerID    int64
}

// NotificationRepository defines the persistence contract for notifications.
type NotificationRepository interface {
	// Store creates a notification row and backfills its ID.
	Store(ctx context.Context, n *Notification) error

	// FetchByRecipient returns a page of the user's notifications, newest first.
	FetchByRecipient(ctx context.Context, recipientID, offset, limit int64) ([]Notification, error)

	// CountUnread returns the recipient's number of unread notifications.
	CountUnread(ctx context.Context, recipientID int64) (int64, error)

	// MarkRead flags one notification as read.
	// Returns ErrForbidden if it does not belong to recipientID.
	MarkRead(ctx context.Context, id, recipientID int64) error

	// MarkAllRead flags every unread notification of the recipient as read.
	MarkAllRead(ctx context.Context, recipientID int64) error

	// Delete removes one notification.
	// Returns ErrForbidden if it does not belong to recipientID.
	Delete(ctx context.Context, id, recipientID int64) error
}

// NotificationUsecase is the notification dispatcher and its read surface.
type NotificationUsecase interface {
	// Create persists the notification for the event and broadcasts it to
	// the recipient's topic. Returns (nil, nil) when the event is a
	// self-notification (sender == recipient), which is skipped entirely.
	Create(ctx context.Context, ev NotificationEvent) (*Notification, error)

	// ListForUser returns one page of notifications plus the unread count.
	ListForUser(ctx context.Context, userID, page, limit int64) ([]Notification, int64, error)

	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, id, userID int64) error
}
