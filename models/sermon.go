package models

type Sermon struct {
	Sermon_ID   string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Speaker     string `json:"speaker"`
	Series      string `json:"series"`
	Video_ID    string `json:"videoId"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Coming_Soon bool   `json:"comingSoon"`
}

type SermonCreate struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Speaker     string `json:"speaker"`
	Series      string `json:"series"`
	Video_URL   string `json:"videoUrl"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

func (s SermonCreate) Fields() map[string]interface{} {
	return map[string]interface{}{
		"title":       s.Title,
		"date":        s.Date,
		"speaker":     s.Speaker,
		"series":      s.Series,
		"videoUrl":    s.Video_URL,
		"description": s.Description,
		"thumbnail":   s.Thumbnail,
	}
}
