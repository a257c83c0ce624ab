package request

type Answer struct {
	Content string `json:"content" binding:"required,min=10"`
}
