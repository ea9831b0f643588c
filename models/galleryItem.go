package models

import "time"

type GalleryItem struct {
	Gallery_Item_ID string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Category        string    `json:"category"`
	Uploaded_At     time.Time `json:"uploadedAt"`
}

type GalleryItemCreate struct {
	Title    string `json:"title"`
	URL      string `json:"url" binding:"required,url"`
	Category string `json:"category"`
}

func (g GalleryItemCreate) Fields() map[string]interface{} {
	return map[string]interface{}{
		"title":    g.Title,
		"url":      g.URL,
		"category": g.Category,
	}
}
