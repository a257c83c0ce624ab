package domain

import (
	"strconv"
	"time"
)

// EventKind enumerates everything the realtime layer can fan out.
type EventKind string

const (
	EventNewQuestion     EventKind = "new-question"
	EventQuestionDeleted EventKind = "question-deleted"
	EventNewAnswer       EventKind = "new-answer"
	EventAnswerUpdated   EventKind = "answer-updated"
	EventAnswerDeleted   EventKind = "answer-deleted"
	EventVoteUpdated     EventKind = "vote-updated"
	EventNewNotification EventKind = "new-notification"
)

// Event is one realtime payload. Each kind has exactly one payload struct;
// the wire encoding happens at the websocket boundary only.
type Event interface {
	Kind() EventKind
}

// VoteUpdated carries the authoritative recounted tally of one target.
type VoteUpdated struct {
	TargetType TargetType     `json:"targetType"`
	TargetID   int64          `json:"targetId"`
	Score      int64          `json:"score"`
	Upvotes    int64          `json:"upvotes"`
	Downvotes  int64          `json:"downvotes"`
	CallerVote *VoteDirection `json:"callerVote"`
}

func (VoteUpdated) Kind() EventKind { return EventVoteUpdated }

type NewQuestion struct {
	QuestionID int64     `json:"questionId"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (NewQuestion) Kind() EventKind { return EventNewQuestion }

type QuestionDeleted struct {
	QuestionID int64 `json:"questionId"`
}

func (QuestionDeleted) Kind() EventKind { return EventQuestionDeleted }

// AnswerPayload is the answer shape shared by new-answer and answer-updated.
type AnswerPayload struct {
	AnswerID   int64     `json:"answerId"`
	QuestionID int64     `json:"questionId"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	Score      int64     `json:"score"`
	Upvotes    int64     `json:"upvotes"`
	Downvotes  int64     `json:"downvotes"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NewAnswer struct {
	AnswerPayload
}

func (NewAnswer) Kind() EventKind { return EventNewAnswer }

type AnswerUpdated struct {
	AnswerPayload
}

func (AnswerUpdated) Kind() EventKind { return EventAnswerUpdated }

type AnswerDeleted struct {
	AnswerID   int64 `json:"answerId"`
	QuestionID int64 `json:"questionId"`
}

func (AnswerDeleted) Kind() EventKind { return EventAnswerDeleted }

type NewNotification struct {
	Type       NotificationType `json:"type"`
	Message    string           `json:"message"`
	QuestionID int64            `json:"questionId"`
}

func (NewNotification) Kind() EventKind { return EventNewNotification }

// TopicQuestionFeed is the topic of the home feed: every live session joins
// it on connect, so new-question and question-deleted reach all viewers.
const TopicQuestionFeed = "questions"

// QuestionTopic names the broadcast topic of one question's viewers.
func QuestionTopic(questionID int64) string {
	return "question:" + strconv.FormatInt(questionID, 10)
}

// UserTopic names the broadcast topic of one user's notification feed.
func UserTopic(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

// Broadcaster delivers an event to every channel currently subscribed to a
// topic. Delivery is best-effort and fire-and-forget: no acknowledgment,
// no retry, no buffering for late joiners.
type Broadcaster interface {
	Publish(topic string, ev Event)
}
