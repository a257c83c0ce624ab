package request

import "github.com/Himanshusingh9647/stackit-qa-platform/domain"

type Vote struct {
	Direction  string `json:"direction" binding:"required,oneof=up down"`
	TargetType string `json:"targetType" binding:"required,targettype"`
	TargetID   int64  `json:"targetId" binding:"required"`
}

func (r *Vote) DomainDirection() domain.VoteDirection {
	return domain.VoteDirection(r.Direction)
}

func (r *Vote) DomainTargetType() domain.TargetType {
	return domain.TargetType(r.TargetType)
}
