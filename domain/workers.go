package domain

import "context"

// ScoreUpdate carries one freshly recounted tally to the cache sync worker.
type ScoreUpdate struct {
	TargetType TargetType
	TargetID   int64
	Tally      VoteTally
}

// SyncScoresWorker batches recounted tallies into the score cache off the
// request path.
type SyncScoresWorker interface {
	Start(ctx context.Context)

	// Send enqueues one update; it never blocks the caller.
	Send(update ScoreUpdate)
}

// NotificationDispatcher decouples notification creation from the content
// operation that triggered it. A dispatch failure never reaches the caller.
type NotificationDispatcher interface {
	Start(ctx context.Context)

	// Send enqueues one event; it never blocks the caller.
	Send(ev NotificationEvent)
}
