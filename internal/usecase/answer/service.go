package answer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

type Service struct {
	answerRepo   domain.AnswerRepository
	questionRepo domain.QuestionRepository
	userRepo     domain.UserRepository
	scoreRepo    domain.ScoreRepository
	broadcaster  domain.Broadcaster
	dispatcher   domain.NotificationDispatcher
}

var _ domain.AnswerUsecase = (*Service)(nil)

func NewService(a domain.AnswerRepository, q domain.QuestionRepository, u domain.UserRepository, s domain.ScoreRepository, b domain.Broadcaster, d domain.NotificationDispatcher) *Service {
	return &Service{
		answerRepo:   a,
		questionRepo: q,
		userRepo:     u,
		scoreRepo:    s,
		broadcaster:  b,
		dispatcher:   d,
	}
}

// Store persists a new answer, notifies the question author and broadcasts
// the answer to the question's viewers. The notification is handed to the
// dispatcher and can never fail this call.
func (s *Service) Store(ctx context.Context, a *domain.Answer) error {
	question, err := s.questionRepo.GetByID(ctx, a.QuestionID)
	if err != nil {
		return err
	}

	if err := s.answerRepo.Store(ctx, a); err != nil {
		return err
	}

	author, err := s.userRepo.GetByID(ctx, a.User.ID)
	if err != nil {
		logrus.Warnf("failed to load answer author %d: %v", a.User.ID, err)
	} else {
		a.User = author
	}

	s.dispatcher.Send(domain.NotificationEvent{
		Type:        domain.NotificationAnswerCreated,
		Message:     fmt.Sprintf("%s answered your question: %q", a.User.Username, question.Title),
		RecipientID: question.User.ID,
		SenderID:    a.User.ID,
		QuestionID:  question.ID,
		AnswerID:    a.ID,
	})

	s.broadcaster.Publish(domain.QuestionTopic(a.QuestionID), domain.NewAnswer{
		AnswerPayload: domain.AnswerPayload{
			AnswerID:   a.ID,
			QuestionID: a.QuestionID,
			Content:    a.Content,
			Author:     a.User.Username,
			CreatedAt:  a.CreatedAt,
		},
	})
	return nil
}

func (s *Service) Update(ctx context.Context, id int64, content string, callerID int64, isAdmin bool) (domain.Answer, error) {
	answer, err := s.answerRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Answer{}, err
	}
	if answer.User.ID != callerID && !isAdmin {
		return domain.Answer{}, domain.ErrForbidden
	}

	answer.Content = content
	answer.UpdatedAt = time.Now()
	if err := s.answerRepo.Update(ctx, &answer); err != nil {
		return domain.Answer{}, err
	}

	tally, err := s.scoreRepo.Get(ctx, domain.TargetAnswer, id)
	if err != nil {
		logrus.Warnf("failed to load tally for answer %d: %v", id, err)
	}
	answer.Tally = tally

	author, err := s.userRepo.GetByID(ctx, answer.User.ID)
	if err == nil {
		answer.User = author
	}

	s.broadcaster.Publish(domain.QuestionTopic(answer.QuestionID), domain.AnswerUpdated{
		AnswerPayload: domain.AnswerPayload{
			AnswerID:   answer.ID,
			QuestionID: answer.QuestionID,
			Content:    answer.Content,
			Author:     answer.User.Username,
			Score:      tally.Score,
			Upvotes:    tally.Upvotes,
			Downvotes:  tally.Downvotes,
			CreatedAt:  answer.CreatedAt,
		},
	})
	return answer, nil
}

func (s *Service) Delete(ctx context.Context, id int64, callerID int64, isAdmin bool) error {
	answer, err := s.answerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if answer.User.ID != callerID && !isAdmin {
		return domain.ErrForbidden
	}

	if err := s.answerRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.broadcaster.Publish(domain.QuestionTopic(answer.QuestionID), domain.AnswerDeleted{
		AnswerID:   id,
		QuestionID: answer.QuestionID,
	})
	return nil
}
