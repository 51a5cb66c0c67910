package entity

import "time"

const DefaultPostSource = "self created blog-post"

type Post struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Source         string    `json:"source"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *Post) IsAuthoredBy(userID string) bool {
	return p.AuthorID != "" && p.AuthorID == userID
}
