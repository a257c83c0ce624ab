package question

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/repository"
)

const (
	// scoreSortScanLimit caps how many questions a score-sorted listing
	// scans; score is derived, so the sort happens in memory.
	scoreSortScanLimit = 500

	bloomSeedBatch = 1000
)

type Service struct {
	questionRepo domain.QuestionRepository
	answerRepo   domain.AnswerRepository
	userRepo     domain.UserRepository
	scoreRepo    domain.ScoreRepository
	bloomRepo    domain.BloomRepository
	broadcaster  domain.Broadcaster
}

var _ domain.QuestionUsecase = (*Service)(nil)

func NewService(q domain.QuestionRepository, a domain.AnswerRepository, u domain.UserRepository, s domain.ScoreRepository, b domain.BloomRepository, br domain.Broadcaster) *Service {
	return &Service{
		questionRepo: q,
		answerRepo:   a,
		userRepo:     u,
		scoreRepo:    s,
		bloomRepo:    b,
		broadcaster:  br,
	}
}

func (s *Service) mustExists(ctx context.Context, id int64) error {
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err == nil && !exists {
		logrus.Warnf("bloom filter says question %d does not exist", id)
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) Fetch(ctx context.Context, page, limit int64, sortBy string) ([]domain.Question, int64, error) {
	repository.PageVerify(&page)
	repository.LimitVerify(&limit)

	if sortBy == domain.SortByScore {
		return s.fetchByScore(ctx, page, limit)
	}

	questions, err := s.questionRepo.Fetch(ctx, repository.Offset(page, limit), limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.questionRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	if err := s.fillListDetails(ctx, questions); err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// fetchByScore scans a bounded window of recent questions, orders them by
// their derived score and slices out the requested page.
func (s *Service) fetchByScore(ctx context.Context, page, limit int64) ([]domain.Question, int64, error) {
	questions, err := s.questionRepo.Fetch(ctx, 0, scoreSortScanLimit)
	if err != nil {
		return nil, 0, err
	}

	if err := s.fillListDetails(ctx, questions); err != nil {
		return nil, 0, err
	}

	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Tally.Score > questions[j].Tally.Score
	})

	total := int64(len(questions))
	offset := repository.Offset(page, limit)
	if offset >= total {
		return []domain.Question{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return questions[offset:end], total, nil
}

// fillListDetails attaches tallies, answer counts and author names.
func (s *Service) fillListDetails(ctx context.Context, questions []domain.Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]int64, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
	}

	tallies, err := s.scoreRepo.GetMany(ctx, domain.TargetQuestion, ids)
	if err != nil {
		return err
	}
	counts, err := s.answerRepo.CountByQuestions(ctx, ids)
	if err != nil {
		return err
	}

	for i := range questions {
		questions[i].Tally = tallies[questions[i].ID]
		questions[i].AnswerCount = counts[questions[i].ID]
	}

	return s.fillAuthors(ctx, questions)
}

func (s *Service) fillAuthors(ctx context.Context, questions []domain.Question) error {
	idSet := make(map[int64]struct{})
	for i := range questions {
		idSet[questions[i].User.ID] = struct{}{}
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
	for i := range questions {
		if u, ok := byID[questions[i].User.ID]; ok {
			questions[i].User = u
		}
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.QuestionDetail, error) {
	if err := s.mustExists(ctx, id); err != nil {
		return domain.QuestionDetail{}, err
	}

	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return domain.QuestionDetail{}, err
	}

	tally, err := s.scoreRepo.Get(ctx, domain.TargetQuestion, id)
	if err != nil {
		return domain.QuestionDetail{}, err
	}
	question.Tally = tally

	answers, err := s.answerRepo.FetchByQuestion(ctx, id)
	if err != nil {
		return domain.QuestionDetail{}, err
	}
	question.AnswerCount = int64(len(answers))

	if len(answers) > 0 {
		answerIDs := make([]int64, len(answers))
		for i := range answers {
			answerIDs[i] = answers[i].ID
		}
		answerTallies, err := s.scoreRepo.GetMany(ctx, domain.TargetAnswer, answerIDs)
		if err != nil {
			return domain.QuestionDetail{}, err
		}
		for i := range answers {
			answers[i].Tally = answerTallies[answers[i].ID]
		}
	}

	if err := s.fillDetailAuthors(ctx, &question, answers); err != nil {
		logrus.Warnf("failed to fill author details: %v", err)
	}

	return domain.QuestionDetail{
		Question: question,
		Answers:  answers,
	}, nil
}

func (s *Service) fillDetailAuthors(ctx context.Context, question *domain.Question, answers []domain.Answer) error {
	idSet := map[int64]struct{}{question.User.ID: {}}
	for i := range answers {
		idSet[answers[i].User.ID] = struct{}{}
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

	if u, ok := byID[question.User.ID]; ok {
		question.User = u
	}
	for i := range answers {
		if u, ok := byID[answers[i].User.ID]; ok {
			answers[i].User = u
		}
	}
	return nil
}

func (s *Service) Store(ctx context.Context, q *domain.Question) error {
	if err := s.questionRepo.Store(ctx, q); err != nil {
		return err
	}

	if err := s.bloomRepo.Add(ctx, q.ID); err != nil {
		logrus.Warnf("failed to add question %d to bloom filter: %v", q.ID, err)
	}

	author, err := s.userRepo.GetByID(ctx, q.User.ID)
	if err == nil {
		q.User = author
	}

	s.broadcaster.Publish(domain.TopicQuestionFeed, domain.NewQuestion{
		QuestionID: q.ID,
		Title:      q.Title,
		Author:     q.User.Username,
		CreatedAt:  q.CreatedAt,
	})
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64, callerID int64, isAdmin bool) error {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if question.User.ID != callerID && !isAdmin {
		return domain.ErrForbidden
	}

	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.broadcaster.Publish(domain.TopicQuestionFeed, domain.QuestionDeleted{QuestionID: id})
	s.broadcaster.Publish(domain.QuestionTopic(id), domain.QuestionDeleted{QuestionID: id})
	return nil
}

// InitBloomFilter seeds the existence filter with every known question ID.
func (s *Service) InitBloomFilter(ctx context.Context) error {
	var cursor int64
	for {
		ids, err := s.questionRepo.FetchIDs(ctx, cursor, bloomSeedBatch)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := s.bloomRepo.BulkAdd(ctx, ids); err != nil {
			return err
		}
		cursor = ids[len(ids)-1]
	}
}
