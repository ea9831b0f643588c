package models

import "time"

const (
	BlogStatusPublished = "published"
	BlogStatusDraft     = "draft"
)

type BlogPost struct {
	Blog_Post_ID string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Excerpt      string    `json:"excerpt"`
	Content      string    `json:"content"`
	Image        string    `json:"image"`
	Status       string    `json:"status"`
	Created_At   time.Time `json:"createdAt"`
}

type BlogPostCreate struct {
	Title   string `json:"title" binding:"required"`
	Slug    string `json:"slug" binding:"required"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content" binding:"required"`
	Image   string `json:"image"`
	Status  string `json:"status"`
}

func (b BlogPostCreate) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"title":   b.Title,
		"slug":    b.Slug,
		"content": b.Content,
		"image":   b.Image,
	}
	if b.Excerpt != "" {
		fields["excerpt"] = b.Excerpt
	}
	if b.Status != "" {
		fields["status"] = b.Status
	}
	return fields
}
