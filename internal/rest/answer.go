package rest

import (
	"net/http"
	"strconv"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/rest/request"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/rest/response"
	"github.com/gin-gonic/gin"
)

// AnswerHandler represent the httphandler for answers
type AnswerHandler struct {
	Service domain.AnswerUsecase
}

func NewAnswerHandler(svc domain.AnswerUsecase) *AnswerHandler {
	return &AnswerHandler{
		Service: svc,
	}
}

// Store will store an answer on the question given by path param
func (h *AnswerHandler) Store(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	var req request.Answer
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	answer := domain.Answer{
		QuestionID: int64(idP),
		Content:    req.Content,
		User:       domain.User{ID: userID.(int64)},
	}

	ctx := c.Request.Context()
	if err := h.Service.Store(ctx, &answer); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response.NewAnswerFromDomain(&answer))
}

// Update will edit the answer content by given param
func (h *AnswerHandler) Update(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	var req request.Answer
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	isAdmin, _ := c.Get("is_admin")
	admin, _ := isAdmin.(bool)

	ctx := c.Request.Context()
	answer, err := h.Service.Update(ctx, int64(idP), req.Content, userID.(int64), admin)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewAnswerFromDomain(&answer))
}

// Delete will delete the answer by given param
func (h *AnswerHandler) Delete(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	isAdmin, _ := c.Get("is_admin")
	admin, _ := isAdmin.(bool)

	if err := h.Service.Delete(c.Request.Context(), int64(idP), userID.(int64), admin); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
