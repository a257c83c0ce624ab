package rest

import (
	"net/http"
	"strconv"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/rest/request"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/rest/response"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

const (
	DefaultPageLimit = 20
	PageLimitMin     = 1
	PageLimitMax     = 100
)

// QuestionHandler  represent the httphandler for question
type QuestionHandler struct {
	Service domain.QuestionUsecase
}

func NewQuestionHandler(svc domain.QuestionUsecase) *QuestionHandler {
	return &QuestionHandler{
		Service: svc,
	}
}

// Fetch will list questions based on given params
func (h *QuestionHandler) Fetch(c *gin.Context) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)
	if err != nil || limit < PageLimitMin || limit > PageLimitMax {
		limit = DefaultPageLimit
	}

	sort := c.DefaultQuery("sort", domain.SortNewest)
	if sort != domain.SortNewest && sort != domain.SortByScore {
		c.JSON(http.StatusBadRequest, ResponseError{Message: domain.ErrBadParamInput.Error()})
		return
	}

	ctx := c.Request.Context()
	list, total, err := h.Service.Fetch(ctx, page, limit, sort)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := make([]response.Question, len(list))
	for i := range list {
		res[i] = response.NewQuestionFromDomain(&list[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"questions": res,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// GetByID will get question by given id, with its answers
func (h *QuestionHandler) GetByID(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}
	id := int64(idP)
	ctx := c.Request.Context()

	detail, err := h.Service.GetByID(ctx, id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewQuestionDetailFromDomain(&detail))
}

// Store will store the question by given request body
func (h *QuestionHandler) Store(c *gin.Context) {
	var req request.Question
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	question := req.ToDomain()
	question.User.ID = userID.(int64)

	ctx := c.Request.Context()
	if err := h.Service.Store(ctx, &question); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response.NewQuestionFromDomain(&question))
}

// Delete will delete the question by given param
func (h *QuestionHandler) Delete(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}
	id := int64(idP)

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	isAdmin, _ := c.Get("is_admin")
	admin, _ := isAdmin.(bool)

	if err := h.Service.Delete(c.Request.Context(), id, userID.(int64), admin); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// getStatusCode will get the code of the error from the usecase layer
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	logrus.Error(err)
	switch err {
	case domain.ErrInternalServerError:
		return http.StatusInternalServerError
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	case domain.ErrBadParamInput:
		return http.StatusBadRequest
	case domain.ErrForbidden, domain.ErrSelfVote:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
