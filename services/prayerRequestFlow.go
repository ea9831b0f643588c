package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ChurchWeb/models"
)

type PrayerFormState string

const (
	PrayerFormEditing    PrayerFormState = "editing"
	PrayerFormSubmitting PrayerFormState = "submitting"
	PrayerFormSucceeded  PrayerFormState = "succeeded"
	PrayerFormFailed     PrayerFormState = "failed"
)

// PrayerConfirmationWindow is how long the thank-you message stays up.
const PrayerConfirmationWindow = 5 * time.Second

// SubmissionError is a failed store write for a form without a payment
// step. The form keeps its contents so the user can retry.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return "Failed to submit prayer request. Please try again."
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

type PrayerRequestFlow struct {
	store DocumentStore
	now   func() time.Time

	mu          sync.Mutex
	form        models.PrayerRequestCreate
	state       PrayerFormState
	confirmedAt time.Time
}

func NewPrayerRequestFlow(store DocumentStore) *PrayerRequestFlow {
	return &PrayerRequestFlow{store: store, now: time.Now, state: PrayerFormEditing}
}

func (f *PrayerRequestFlow) State() PrayerFormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Form returns what the form currently holds: the last submission after a
// failure, empty fields after a success.
func (f *PrayerRequestFlow) Form() models.PrayerRequestCreate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// ConfirmationVisible reports whether the success message is still shown at t.
func (f *PrayerRequestFlow) ConfirmationVisible(t time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == PrayerFormSucceeded && t.Before(f.confirmedAt.Add(PrayerConfirmationWindow))
}

func (f *PrayerRequestFlow) Submit(ctx context.Context, form models.PrayerRequestCreate) (models.PrayerRequest, error) {
	f.mu.Lock()
	if f.state == PrayerFormSubmitting {
		f.mu.Unlock()
		return models.PrayerRequest{}, ErrSubmissionInProgress
	}
	f.form = form
	f.state = PrayerFormEditing

	if err := ValidatePrayerRequest(form); err != nil {
		f.mu.Unlock()
		return models.PrayerRequest{}, err
	}
	f.state = PrayerFormSubmitting
	f.mu.Unlock()

	request := models.PrayerRequest{
		Name:       strings.TrimSpace(form.Name),
		Email:      strings.TrimSpace(form.Email),
		Request:    form.Request,
		Created_At: f.now().UTC(),
	}

	var id string
	err := ErrStoreUnavailable
	if f.store != nil {
		id, err = f.store.Create(ctx, CollectionPrayerRequests, map[string]interface{}{
			"name":      request.Name,
			"email":     request.Email,
			"request":   request.Request,
			"createdAt": ServerTimestamp,
		})
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = PrayerFormFailed
		log.Printf("Error submitting prayer request: %v", err)
		return models.PrayerRequest{}, &SubmissionError{Err: err}
	}

	request.Prayer_Request_ID = id
	f.state = PrayerFormSucceeded
	f.form = models.PrayerRequestCreate{}
	f.confirmedAt = f.now()

	return request, nil
}

func ValidatePrayerRequest(form models.PrayerRequestCreate) error {
	if strings.TrimSpace(form.Name) == "" {
		return &ValidationError{Field: "name", Message: "Name is required"}
	}
	if strings.TrimSpace(form.Request) == "" {
		return &ValidationError{Field: "request", Message: "Prayer request is required"}
	}
	return nil
}
