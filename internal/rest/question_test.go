package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/rest"
)

type fakeQuestionUsecase struct {
	fetchFn   func(page, limit int64, sort string) ([]domain.Question, int64, error)
	getByIDFn func(id int64) (domain.QuestionDetail, error)
	storeFn   func(q *domain.Question) error
	deleteFn  func(id, callerID int64, isAdmin bool) error
}

func (f *fakeQuestionUsecase) Fetch(_ context.Context, page, limit int64, sort string) ([]domain.Question, int64, error) {
	return f.fetchFn(page, limit, sort)
}

func (f *fakeQuestionUsecase) GetByID(_ context.Context, id int64) (domain.QuestionDetail, error) {
	return f.getByIDFn(id)
}

func (f *fakeQuestionUsecase) Store(_ context.Context, q *domain.Question) error {
	return f.storeFn(q)
}

func (f *fakeQuestionUsecase) Delete(_ context.Context, id, callerID int64, isAdmin bool) error {
	return f.deleteFn(id, callerID, isAdmin)
}

func (f *fakeQuestionUsecase) InitBloomFilter(context.Context) error { return nil }

func randomQuestion() domain.Question {
	return domain.Question{
		ID:          1,
		Title:       faker.Sentence(),
		Description: faker.Paragraph(),
		User:        domain.User{ID: 1, Username: faker.Username()},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func newQuestionRouter(t *testing.T, svc domain.QuestionUsecase) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, rest.RegisterValidations())
	r := gin.New()
	handler := rest.NewQuestionHandler(svc)
	r.GET("/questions", handler.Fetch)
	r.GET("/questions/:id", handler.GetByID)
	r.POST("/questions", asUser(5), handler.Store)
	r.DELETE("/questions/:id", asUser(5), handler.Delete)
	return r
}

func TestFetchHandlerDefaults(t *testing.T) {
	q := randomQuestion()
	svc := &fakeQuestionUsecase{
		fetchFn: func(page, limit int64, sort string) ([]domain.Question, int64, error) {
			assert.Equal(t, int64(1), page)
			assert.Equal(t, int64(20), limit)
			assert.Equal(t, domain.SortNewest, sort)
			return []domain.Question{q}, 1, nil
		},
	}
	r := newQuestionRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/questions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Questions []map[string]any `json:"questions"`
		Total     int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Total)
	require.Len(t, body.Questions, 1)
	assert.Equal(t, q.Title, body.Questions[0]["title"])
}

func TestFetchHandlerScoreSort(t *testing.T) {
	svc := &fakeQuestionUsecase{
		fetchFn: func(page, limit int64, sort string) ([]domain.Question, int64, error) {
			assert.Equal(t, domain.SortByScore, sort)
			return nil, 0, nil
		},
	}
	r := newQuestionRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/questions?sort=score", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFetchHandlerBadSort(t *testing.T) {
	svc := &fakeQuestionUsecase{
		fetchFn: func(int64, int64, string) ([]domain.Question, int64, error) {
			t.Fatal("usecase must not be reached for an unknown sort")
			return nil, 0, nil
		},
	}
	r := newQuestionRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/questions?sort=controversial", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByIDHandler(t *testing.T) {
	q := randomQuestion()
	svc := &fakeQuestionUsecase{
		getByIDFn: func(id int64) (domain.QuestionDetail, error) {
			assert.Equal(t, int64(1), id)
			return domain.QuestionDetail{Question: q, Answers: []domain.Answer{{ID: 2, QuestionID: 1}}}, nil
		},
	}
	r := newQuestionRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/questions/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Title   string           `json:"title"`
		Answers []map[string]any `json:"answers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, q.Title, body.Title)
	assert.Len(t, body.Answers, 1)
}

func TestGetByIDHandlerNotFound(t *testing.T) {
	svc := &fakeQuestionUsecase{
		getByIDFn: func(int64) (domain.QuestionDetail, error) {
			return domain.QuestionDetail{}, domain.ErrNotFound
		},
	}
	r := newQuestionRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/questions/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoreHandler(t *testing.T) {
	svc := &fakeQuestionUsecase{
		storeFn: func(q *domain.Question) error {
			assert.Equal(t, int64(5), q.User.ID)
			q.ID = 42
			return nil
		},
	}
	r := newQuestionRouter(t, svc)

	w := postJSON(r, "/questions", gin.H{
		"title":       faker.Sentence(),
		"description": faker.Paragraph(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(42), body["id"])
}

func TestStoreHandlerMissingTitle(t *testing.T) {
	svc := &fakeQuestionUsecase{
		storeFn: func(*domain.Question) error {
			t.Fatal("usecase must not be reached without a title")
			return nil
		},
	}
	r := newQuestionRouter(t, svc)

	w := postJSON(r, "/questions", gin.H{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteHandlerForbidden(t *testing.T) {
	svc := &fakeQuestionUsecase{
		deleteFn: func(id, callerID int64, isAdmin bool) error {
			assert.Equal(t, int64(5), callerID)
			assert.False(t, isAdmin)
			return domain.ErrForbidden
		},
	}
	r := newQuestionRouter(t, svc)

	req := httptest.NewRequest(http.MethodDelete, "/questions/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteHandlerNoContent(t *testing.T) {
	svc := &fakeQuestionUsecase{
		deleteFn: func(int64, int64, bool) error { return nil },
	}
	r := newQuestionRouter(t, svc)

	req := httptest.NewRequest(http.MethodDelete, "/questions/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
