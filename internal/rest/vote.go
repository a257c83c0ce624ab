package rest

import (
	"net/http"
	"strconv"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/rest/request"
	"github.com/gin-gonic/gin"
)

const (
	voteRecordedMsg = "Vote recorded"
	voteRemovedMsg  = "Vote removed"
)

// VoteHandler represent the httphandler for votes
type VoteHandler struct {
	Service domain.VoteUsecase
}

func NewVoteHandler(svc domain.VoteUsecase) *VoteHandler {
	return &VoteHandler{
		Service: svc,
	}
}

// Cast applies one toggle step of the voter's vote on a target
func (h *VoteHandler) Cast(c *gin.Context) {
	var req request.Vote
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx := c.Request.Context()
	result, err := h.Service.Cast(ctx, userID.(int64), req.DomainTargetType(), req.TargetID, req.DomainDirection())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	msg := voteRecordedMsg
	if result.CallerVote == nil {
		msg = voteRemovedMsg
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    msg,
		"score":      result.Score,
		"upvotes":    result.Upvotes,
		"downvotes":  result.Downvotes,
		"callerVote": result.CallerVote,
	})
}

// GetCallerVote reports the authenticated user's current vote on a target
func (h *VoteHandler) GetCallerVote(c *gin.Context) {
	targetType := domain.TargetType(c.Param("targetType"))
	if !targetType.Valid() {
		c.JSON(http.StatusBadRequest, ResponseError{Message: domain.ErrBadParamInput.Error()})
		return
	}
	idP, err := strconv.Atoi(c.Param("targetId"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx := c.Request.Context()
	vote, err := h.Service.CallerVote(ctx, userID.(int64), targetType, int64(idP))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"callerVote": vote})
}
