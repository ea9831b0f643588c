package models

import "time"

type PrayerRequest struct {
	Prayer_Request_ID string    `json:"prayerRequestId,omitempty"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Request           string    `json:"request"`
	Created_At        time.Time `json:"createdAt"`
}
