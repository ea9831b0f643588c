package models

type Event struct {
	Event_ID    string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}

type EventCreate struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}

func (e EventCreate) Fields() map[string]interface{} {
	return map[string]interface{}{
		"title":       e.Title,
		"description": e.Description,
		"date":        e.Date,
		"time":        e.Time,
		"location":    e.Location,
		"category":    e.Category,
	}
}
