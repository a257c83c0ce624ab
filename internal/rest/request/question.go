package request

import "github.com/Himanshusingh9647/stackit-qa-platform/domain"

type Question struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"required"`
}

// ToDomain: Request -> Domain
func (r *Question) ToDomain() domain.Question {
	return domain.Question{
		Title:       r.Title,
		Description: r.Description,
	}
}
