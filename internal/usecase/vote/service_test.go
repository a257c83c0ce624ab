package vote_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/usecase/vote"
)

// ledgerRepo is an in-memory vote ledger keyed the way the unique index
// keys it: one row per (voter, targetType, targetID).
type ledgerRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Vote
}

func newLedgerRepo() *ledgerRepo {
	return &ledgerRepo{rows: make(map[int64]domain.Vote)}
}

func (r *ledgerRepo) GetByVoterAndTarget(_ context.Context, voterID int64, targetType domain.TargetType, targetID int64) (domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.rows {
		if v.UserID == voterID && v.TargetType == targetType && v.TargetID == targetID {
			return v, nil
		}
	}
	return domain.Vote{}, domain.ErrNotFound
}

func (r *ledgerRepo) Store(_ context.Context, v *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	v.ID = r.nextID
	r.rows[v.ID] = *v
	return nil
}

func (r *ledgerRepo) UpdateDirection(_ context.Context, id int64, direction domain.VoteDirection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.Direction = direction
	r.rows[id] = row
	return nil
}

func (r *ledgerRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *ledgerRepo) CountByTarget(_ context.Context, targetType domain.TargetType, targetID int64) (domain.VoteTally, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t domain.VoteTally
	for _, v := range r.rows {
		if v.TargetType != targetType || v.TargetID != targetID {
			continue
		}
		if v.Direction == domain.VoteUp {
			t.Upvotes++
		} else {
			t.Downvotes++
		}
	}
	t.Score = t.Upvotes - t.Downvotes
	return t, nil
}

func (r *ledgerRepo) Transaction(_ context.Context, fn func(domain.VoteRepository) error) error {
	return fn(r)
}

func (r *ledgerRepo) rowCount(voterID int64, targetType domain.TargetType, targetID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, v := range r.rows {
		if v.UserID == voterID && v.TargetType == targetType && v.TargetID == targetID {
			n++
		}
	}
	return n
}

type stubQuestionRepo struct {
	questions map[int64]domain.Question
}

func (r *stubQuestionRepo) Fetch(context.Context, int64, int64) ([]domain.Question, error) {
	return nil, nil
}
func (r *stubQuestionRepo) Count(context.Context) (int64, error) { return 0, nil }
func (r *stubQuestionRepo) GetByID(_ context.Context, id int64) (domain.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrNotFound
	}
	return q, nil
}
func (r *stubQuestionRepo) Store(context.Context, *domain.Question) error { return nil }
func (r *stubQuestionRepo) Delete(context.Context, int64) error           { return nil }
func (r *stubQuestionRepo) FetchIDs(context.Context, int64, int64) ([]int64, error) {
	return nil, nil
}

type stubAnswerRepo struct {
	answers map[int64]domain.Answer
}

func (r *stubAnswerRepo) Store(context.Context, *domain.Answer) error { return nil }
func (r *stubAnswerRepo) GetByID(_ context.Context, id int64) (domain.Answer, error) {
	a, ok := r.answers[id]
	if !ok {
		return domain.Answer{}, domain.ErrNotFound
	}
	return a, nil
}
func (r *stubAnswerRepo) FetchByQuestion(context.Context, int64) ([]domain.Answer, error) {
	return nil, nil
}
func (r *stubAnswerRepo) Update(context.Context, *domain.Answer) error { return nil }
func (r *stubAnswerRepo) Delete(context.Context, int64) error          { return nil }
func (r *stubAnswerRepo) CountByQuestions(context.Context, []int64) (map[int64]int64, error) {
	return nil, nil
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

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

type recordingSyncer struct {
	mu      sync.Mutex
	updates []domain.ScoreUpdate
}

func (s *recordingSyncer) Start(context.Context) {}
func (s *recordingSyncer) Send(update domain.ScoreUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, update)
}

func newVoteService(t *testing.T) (*vote.Service, *ledgerRepo, *recordingBroadcaster, *recordingSyncer) {
	t.Helper()
	ledger := newLedgerRepo()
	questions := &stubQuestionRepo{questions: map[int64]domain.Question{
		10: {ID: 10, User: domain.User{ID: 1}},
	}}
	answers := &stubAnswerRepo{answers: map[int64]domain.Answer{
		20: {ID: 20, QuestionID: 10, User: domain.User{ID: 2}},
	}}
	broadcaster := &recordingBroadcaster{}
	syncer := &recordingSyncer{}
	return vote.NewService(ledger, questions, answers, broadcaster, syncer), ledger, broadcaster, syncer
}

func TestCastCreatesVote(t *testing.T) {
	svc, ledger, broadcaster, syncer := newVoteService(t)

	res, err := svc.Cast(context.Background(), 5, domain.TargetQuestion, 10, domain.VoteUp)
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.Score)
	assert.Equal(t, int64(1), res.Upvotes)
	assert.Equal(t, int64(0), res.Downvotes)
	require.NotNil(t, res.CallerVote)
	assert.Equal(t, domain.VoteUp, *res.CallerVote)
	assert.Equal(t, 1, ledger.rowCount(5, domain.TargetQuestion, 10))

	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, domain.QuestionTopic(10), broadcaster.topics[0])
	ev, ok := broadcaster.events[0].(domain.VoteUpdated)
	require.True(t, ok)
	assert.Equal(t, int64(1), ev.Score)

	require.Len(t, syncer.updates, 1)
	assert.Equal(t, int64(10), syncer.updates[0].TargetID)
}

func TestCastSameDirectionRetracts(t *testing.T) {
	svc, ledger, _, _ := newVoteService(t)
	ctx := context.Background()

	_, err := svc.Cast(ctx, 5, domain.TargetQuestion, 10, domain.VoteUp)
	require.NoError(t, err)

	res, err := svc.Cast(ctx, 5, domain.TargetQuestion, 10, domain.VoteUp)
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.Score)
	assert.Nil(t, res.CallerVote)
	assert.Equal(t, 0, ledger.rowCount(5, domain.TargetQuestion, 10))
}

func TestCastOppositeDirectionSwitches(t *testing.T) {
	svc, ledger, _, _ := newVoteService(t)
	ctx := context.Background()

	first, err := svc.Cast(ctx, 5, domain.TargetQuestion, 10, domain.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Score)

	second, err := svc.Cast(ctx, 5, domain.TargetQuestion, 10, domain.VoteDown)
	require.NoError(t, err)

	// A switch moves the score by two: the up goes away and a down lands.
	assert.Equal(t, int64(-1), second.Score)
	assert.Equal(t, int64(0), second.Upvotes)
	assert.Equal(t, int64(1), second.Downvotes)
	require.NotNil(t, second.CallerVote)
	assert.Equal(t, domain.VoteDown, *second.CallerVote)
	assert.Equal(t, 1, ledger.rowCount(5, domain.TargetQuestion, 10))
}

func TestCastTallyMatchesLedger(t *testing.T) {
	svc, ledger, _, _ := newVoteService(t)
	ctx := context.Background()

	_, err := svc.Cast(ctx, 5, domain.TargetAnswer, 20, domain.VoteUp)
	require.NoError(t, err)
	_, err = svc.Cast(ctx, 6, domain.TargetAnswer, 20, domain.VoteUp)
	require.NoError(t, err)
	res, err := svc.Cast(ctx, 7, domain.TargetAnswer, 20, domain.VoteDown)
	require.NoError(t, err)

	want, err := ledger.CountByTarget(ctx, domain.TargetAnswer, 20)
	require.NoError(t, err)
	assert.Equal(t, want, res.VoteTally)
	assert.Equal(t, res.Upvotes-res.Downvotes, res.Score)
}

func TestCastSelfVoteRejected(t *testing.T) {
	svc, ledger, broadcaster, syncer := newVoteService(t)

	// User 1 authored question 10, user 2 authored answer 20.
	_, err := svc.Cast(context.Background(), 1, domain.TargetQuestion, 10, domain.VoteUp)
	assert.ErrorIs(t, err, domain.ErrSelfVote)

	_, err = svc.Cast(context.Background(), 2, domain.TargetAnswer, 20, domain.VoteDown)
	assert.ErrorIs(t, err, domain.ErrSelfVote)

	assert.Equal(t, 0, ledger.rowCount(1, domain.TargetQuestion, 10))
	assert.Zero(t, broadcaster.count())
	assert.Empty(t, syncer.updates)
}

func TestCastTargetNotFound(t *testing.T) {
	svc, _, _, _ := newVoteService(t)

	_, err := svc.Cast(context.Background(), 5, domain.TargetQuestion, 999, domain.VoteUp)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Cast(context.Background(), 5, domain.TargetAnswer, 999, domain.VoteUp)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCastInvalidInput(t *testing.T) {
	svc, _, _, _ := newVoteService(t)

	_, err := svc.Cast(context.Background(), 5, "post", 10, domain.VoteUp)
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	_, err = svc.Cast(context.Background(), 5, domain.TargetQuestion, 10, "sideways")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestCastConcurrentVotersConverge(t *testing.T) {
	svc, ledger, _, _ := newVoteService(t)
	ctx := context.Background()

	const voters = 32
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(voterID int64) {
			defer wg.Done()
			// Each voter toggles three times, ending with a vote in place.
			for n := 0; n < 3; n++ {
				_, err := svc.Cast(ctx, voterID, domain.TargetQuestion, 10, domain.VoteUp)
				assert.NoError(t, err)
			}
		}(int64(i + 100))
	}
	wg.Wait()

	tally, err := ledger.CountByTarget(ctx, domain.TargetQuestion, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(voters), tally.Upvotes)
	assert.Equal(t, int64(voters), tally.Score)
	for i := 0; i < voters; i++ {
		assert.Equal(t, 1, ledger.rowCount(int64(i+100), domain.TargetQuestion, 10))
	}
}

func TestCallerVote(t *testing.T) {
	svc, _, _, _ := newVoteService(t)
	ctx := context.Background()

	got, err := svc.CallerVote(ctx, 5, domain.TargetQuestion, 10)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = svc.Cast(ctx, 5, domain.TargetQuestion, 10, domain.VoteDown)
	require.NoError(t, err)

	got, err = svc.CallerVote(ctx, 5, domain.TargetQuestion, 10)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.VoteDown, *got)
}
