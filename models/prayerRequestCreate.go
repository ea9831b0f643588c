package models

// PrayerRequestCreate is posted by both the prayer request page and the
// contact page.
type PrayerRequestCreate struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Request string `json:"request"`
}
