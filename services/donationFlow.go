package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ChurchWeb/models"
)

type DonationState string

const (
	StateEditing           DonationState = "editing"
	StateValidating        DonationState = "validating"
	StateAwaitingGateway   DonationState = "awaiting_gateway"
	StateGatewaySucceeded  DonationState = "gateway_succeeded"
	StatePersisting        DonationState = "persisting"
	StateCompleted         DonationState = "completed"
	StateValidationFailed  DonationState = "validation_failed"
	StateGatewayLoadFailed DonationState = "gateway_load_failed"
	StateGatewayCancelled  DonationState = "gateway_cancelled"
	StatePersistFailed     DonationState = "persist_failed"
)

// InFlight reports whether a checkout attempt owns the flow.
func (s DonationState) InFlight() bool {
	return s == StateAwaitingGateway || s == StateGatewaySucceeded || s == StatePersisting
}

// DonorInfo is either AnonymousDonor or NamedDonor.
type DonorInfo interface {
	donorInfo()
}

type AnonymousDonor struct{}

type NamedDonor struct {
	Name  string
	Email string
}

func (AnonymousDonor) donorInfo() {}
func (NamedDonor) donorInfo()     {}

type DonationResult struct {
	Donation     models.Donation
	Confirmation models.DonationConfirmation
}

type pledge struct {
	amount  float64
	purpose models.DonationPurpose
	donor   DonorInfo
}

// DonationFlow turns one pledge into a donation record once the hosted
// checkout reports a successful payment. It is safe for concurrent use but
// holds at most one checkout attempt at a time.
type DonationFlow struct {
	gateway    CheckoutGateway
	store      DocumentStore
	churchName string
	now        func() time.Time

	mu        sync.Mutex
	amount    string
	purpose   models.DonationPurpose
	donorName string
	email     string
	anonymous bool

	state    DonationState
	history  []DonationState
	pending  pledge
	attempt  *CheckoutAttempt
	awaiting bool
}

func NewDonationFlow(gateway CheckoutGateway, store DocumentStore, churchName string) *DonationFlow {
	return &DonationFlow{
		gateway:    gateway,
		store:      store,
		churchName: churchName,
		now:        time.Now,
		purpose:    models.PurposeTithes,
		state:      StateEditing,
		history:    []DonationState{StateEditing},
	}
}

func (f *DonationFlow) State() DonationState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// History returns every state the flow has entered, oldest first.
func (f *DonationFlow) History() []DonationState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.history)
}

// Attempt returns the open checkout attempt, if any.
func (f *DonationFlow) Attempt() *CheckoutAttempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempt
}

// SetAmount stores the amount exactly as entered; it is parsed on Submit.
func (f *DonationFlow) SetAmount(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.amount = value
	f.reopen()
}

func (f *DonationFlow) SelectPreset(amount int) error {
	if !slices.Contains(models.DonationPresetAmounts, amount) {
		return &ValidationError{Field: "amount", Message: fmt.Sprintf("%d is not a suggested amount", amount)}
	}
	f.SetAmount(strconv.Itoa(amount))
	return nil
}

func (f *DonationFlow) SetPurpose(purpose models.DonationPurpose) error {
	if !purpose.Valid() {
		return &ValidationError{Field: "purpose", Message: fmt.Sprintf("unknown donation purpose %q", purpose)}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purpose = purpose
	f.reopen()
	return nil
}

func (f *DonationFlow) SetAnonymous(anonymous bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.anonymous = anonymous
	f.reopen()
}

func (f *DonationFlow) SetDonor(name string, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.donorName = name
	f.email = email
	f.reopen()
}

// Donor resolves the identity fields into the tagged variant.
func (f *DonationFlow) Donor() DonorInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.donor()
}

func (f *DonationFlow) donor() DonorInfo {
	if f.anonymous {
		return AnonymousDonor{}
	}
	return NamedDonor{Name: strings.TrimSpace(f.donorName), Email: strings.TrimSpace(f.email)}
}

// Submit validates the pledge, loads the checkout and opens an attempt. The
// returned attempt must be resolved by the gateway callbacks and the result
// collected with Await.
func (f *DonationFlow) Submit(ctx context.Context) (*CheckoutAttempt, error) {
	f.mu.Lock()
	if f.state.InFlight() {
		f.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	if f.state != StateEditing {
		f.transition(StateEditing)
	}
	f.transition(StateValidating)

	amount, err := ParseDonationAmount(f.amount)
	if err != nil {
		f.transition(StateValidationFailed)
		f.transition(StateEditing)
		f.mu.Unlock()
		return nil, err
	}

	p := pledge{amount: amount, purpose: f.purpose, donor: f.donor()}
	f.pending = p
	f.transition(StateAwaitingGateway)
	f.mu.Unlock()

	if f.gateway == nil {
		return nil, f.gatewayFailed(ErrGatewayNotConfigured)
	}

	if err := f.gateway.Load(ctx); err != nil {
		return nil, f.gatewayFailed(err)
	}

	attempt, err := f.gateway.Open(ctx, f.checkoutOptions(p))
	if err != nil {
		return nil, f.gatewayFailed(err)
	}

	f.mu.Lock()
	f.attempt = attempt
	f.mu.Unlock()

	return attempt, nil
}

// Await suspends until the open attempt resolves. A dismissal returns the
// flow to editing with ErrGatewayCancelled; a success writes the donation
// record. Cancelling ctx abandons the wait but leaves the attempt open.
func (f *DonationFlow) Await(ctx context.Context) (DonationResult, error) {
	f.mu.Lock()
	attempt := f.attempt
	if attempt == nil || f.state != StateAwaitingGateway || f.awaiting {
		f.mu.Unlock()
		return DonationResult{}, ErrNoPendingCheckout
	}
	f.awaiting = true
	f.mu.Unlock()

	outcome, err := attempt.Wait(ctx)

	f.mu.Lock()
	f.awaiting = false
	if err != nil {
		f.mu.Unlock()
		return DonationResult{}, err
	}

	if outcome.Dismissed {
		f.transition(StateGatewayCancelled)
		f.transition(StateEditing)
		f.attempt = nil
		f.mu.Unlock()
		return DonationResult{}, ErrGatewayCancelled
	}

	f.transition(StateGatewaySucceeded)
	f.transition(StatePersisting)
	donation := f.donationRecord(f.pending, outcome.Confirmation.Payment_ID)
	f.mu.Unlock()

	// the payment has already moved, so the write must outlive the caller
	id, err := f.persist(context.WithoutCancel(ctx), donation)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempt = nil

	if err != nil {
		f.transition(StatePersistFailed)
		log.Printf("Error saving donation for payment %s: %v", donation.Payment_ID, err)
		return DonationResult{}, &PersistenceError{Payment_ID: donation.Payment_ID, Err: err}
	}

	donation.Donation_ID = id
	f.transition(StateCompleted)

	return DonationResult{
		Donation: donation,
		Confirmation: models.DonationConfirmation{
			Amount:        donation.Amount,
			Purpose:       donation.Purpose,
			Purpose_Label: donation.Purpose.Label(),
		},
	}, nil
}

// VerifyPayment authenticates a success payload against the open attempt
// when the gateway supports it.
func (f *DonationFlow) VerifyPayment(confirmation PaymentConfirmation) error {
	f.mu.Lock()
	attempt := f.attempt
	f.mu.Unlock()

	if attempt == nil {
		return ErrNoPendingCheckout
	}
	verifier, ok := f.gateway.(PaymentVerifier)
	if !ok {
		return nil
	}
	return verifier.VerifyPayment(attempt.Options.Order_ID, confirmation)
}

func (f *DonationFlow) persist(ctx context.Context, donation models.Donation) (string, error) {
	if f.store == nil {
		return "", ErrStoreUnavailable
	}
	return f.store.Create(ctx, CollectionDonations, DonationFields(donation))
}

func (f *DonationFlow) gatewayFailed(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transition(StateGatewayLoadFailed)
	log.Printf("Error loading payment gateway: %v", err)
	return &GatewayError{Err: err}
}

func (f *DonationFlow) checkoutOptions(p pledge) CheckoutOptions {
	opts := CheckoutOptions{
		Amount:      GatewayAmount(p.amount),
		Currency:    models.DonationCurrency,
		Name:        f.churchName,
		Description: "Donation - " + string(p.purpose),
		Theme:       CheckoutTheme{Color: CheckoutThemeColor},
		Notes:       map[string]string{"purpose": string(p.purpose)},
	}
	if named, ok := p.donor.(NamedDonor); ok {
		opts.Prefill = CheckoutPrefill{Name: named.Name, Email: named.Email}
	}
	return opts
}

func (f *DonationFlow) donationRecord(p pledge, paymentID string) models.Donation {
	donation := models.Donation{
		Amount:     p.amount,
		Purpose:    p.purpose,
		Donor_Name: models.AnonymousDonorName,
		Payment_ID: paymentID,
		Created_At: f.now().UTC(),
	}

	switch donor := p.donor.(type) {
	case AnonymousDonor:
		donation.Anonymous = true
	case NamedDonor:
		if donor.Name != "" {
			donation.Donor_Name = donor.Name
		}
		donation.Email = donor.Email
	}

	return donation
}

// reopen returns a finished or failed flow to editing. Must hold f.mu.
func (f *DonationFlow) reopen() {
	switch f.state {
	case StateValidationFailed, StateGatewayLoadFailed, StateGatewayCancelled, StatePersistFailed, StateCompleted:
		f.transition(StateEditing)
	}
}

// Must hold f.mu.
func (f *DonationFlow) transition(next DonationState) {
	f.state = next
	f.history = append(f.history, next)
}

// DonationFields is the stored shape of a donation. createdAt is assigned by
// the store.
func DonationFields(d models.Donation) map[string]interface{} {
	return map[string]interface{}{
		"amount":    d.Amount,
		"purpose":   string(d.Purpose),
		"donorName": d.Donor_Name,
		"email":     d.Email,
		"anonymous": d.Anonymous,
		"paymentId": d.Payment_ID,
		"createdAt": ServerTimestamp,
	}
}

// ParseDonationAmount accepts any finite number of at least 1. There is no
// upper bound.
func ParseDonationAmount(value string) (float64, error) {
	invalid := &ValidationError{Field: "amount", Message: "Please enter a valid amount"}

	value = strings.TrimSpace(value)
	if value == "" {
		return 0, invalid
	}

	amount, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 1 {
		return 0, invalid
	}

	return amount, nil
}

// GatewayAmount converts rupees to paise.
func GatewayAmount(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
