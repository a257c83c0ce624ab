package model

import (
	"time"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

// Vote is the ledger row. The composite unique index backs the
// one-vote-per-voter-per-target invariant at the storage level.
type Vote struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UserID     int64     `gorm:"column:user_id;not null;uniqueIndex:idx_voter_target"`
	TargetType string    `gorm:"column:target_type;type:varchar(10);not null;uniqueIndex:idx_voter_target"`
	TargetID   int64     `gorm:"column:target_id;not null;uniqueIndex:idx_voter_target;index:idx_target"`
	Direction  string    `gorm:"type:varchar(5);not null"`
	CreatedAt  time.Time `gorm:"type:datetime"`
}

func (Vote) TableName() string {
	return "vote"
}

func (m *Vote) ToDomain() domain.Vote {
	return domain.Vote{
		ID:         m.ID,
		UserID:     m.UserID,
		TargetType: domain.TargetType(m.TargetType),
		TargetID:   m.TargetID,
		Direction:  domain.VoteDirection(m.Direction),
		CreatedAt:  m.CreatedAt,
	}
}

func NewVoteFromDomain(v *domain.Vote) *Vote {
	return &Vote{
		ID:         v.ID,
		UserID:     v.UserID,
		TargetType: string(v.TargetType),
		TargetID:   v.TargetID,
		Direction:  string(v.Direction),
		CreatedAt:  v.CreatedAt,
	}
}
