package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChurchWeb/models"
)

func storedDonations(t *testing.T, store *MemoryDocumentStore) []models.Document {
	t.Helper()
	docs, err := store.Query(context.Background(), CollectionDonations, Query{})
	require.NoError(t, err)
	return docs
}

func TestDonationFlowNamedDonorScenario(t *testing.T) {
	gateway := &fakeGateway{}
	store := NewMemoryDocumentStore()
	flow := NewDonationFlow(gateway, store, "Grace Church")

	flow.SetAmount("500")
	require.NoError(t, flow.SetPurpose(models.PurposeTithes))
	flow.SetAnonymous(false)
	flow.SetDonor("Asha", "")

	attempt, err := flow.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingGateway, flow.State())

	require.Len(t, gateway.opened, 1)
	opts := gateway.opened[0]
	assert.Equal(t, int64(50000), opts.Amount)
	assert.Equal(t, "INR", opts.Currency)
	assert.Equal(t, "Grace Church", opts.Name)
	assert.Equal(t, "Donation - tithes", opts.Description)
	assert.Equal(t, "Asha", opts.Prefill.Name)
	assert.Equal(t, CheckoutThemeColor, opts.Theme.Color)

	require.NoError(t, attempt.Succeed(PaymentConfirmation{Payment_ID: "pay_123"}))

	result, err := flow.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, flow.State())
	assert.Equal(t, models.DonationConfirmation{Amount: 500, Purpose: models.PurposeTithes, Purpose_Label: "Tithes"}, result.Confirmation)
	assert.NotEmpty(t, result.Donation.Donation_ID)

	docs := storedDonations(t, store)
	require.Len(t, docs, 1)
	fields := docs[0].Fields
	assert.Equal(t, 500.0, fields["amount"])
	assert.Equal(t, "tithes", fields["purpose"])
	assert.Equal(t, "Asha", fields["donorName"])
	assert.Equal(t, "", fields["email"])
	assert.Equal(t, false, fields["anonymous"])
	assert.Equal(t, "pay_123", fields["paymentId"])
	assert.IsType(t, time.Time{}, fields["createdAt"], "createdAt is assigned by the store")

	assert.Equal(t, []DonationState{
		StateEditing, StateValidating, StateAwaitingGateway,
		StateGatewaySucceeded, StatePersisting, StateCompleted,
	}, flow.History())
}

func TestDonationFlowEmptyAmountStaysEditing(t *testing.T) {
	gateway := &fakeGateway{}
	store := NewMemoryDocumentStore()
	flow := NewDonationFlow(gateway, store, "Grace Church")

	flow.SetAmount("")
	attempt, err := flow.Submit(context.Background())

	assert.Nil(t, attempt)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "amount", validationErr.Field)
	assert.Equal(t, StateEditing, flow.State())
	assert.Contains(t, flow.History(), StateValidationFailed)
	assert.Equal(t, 0, gateway.loadCount(), "no gateway script may be requested")
	assert.Empty(t, storedDonations(t, store))
}

func TestDonationFlowRejectsInvalidAmountsWithoutGateway(t *testing.T) {
	amounts := []string{"0", "0.99", "-5", "abc", "12abc", "NaN", "Inf", "  "}

	for _, amount := range amounts {
		t.Run(amount, func(t *testing.T) {
			gateway := &fakeGateway{}
			flow := NewDonationFlow(gateway, NewMemoryDocumentStore(), "Grace Church")
			flow.SetAmount(amount)

			_, err := flow.Submit(context.Background())

			var validationErr *ValidationError
			assert.True(t, errors.As(err, &validationErr))
			assert.Equal(t, 0, gateway.loadCount())
			assert.Equal(t, StateEditing, flow.State())
		})
	}
}

func TestDonationFlowAnonymousSuppressesIdentity(t *testing.T) {
	gateway := &fakeGateway{}
	store := NewMemoryDocumentStore()
	flow := NewDonationFlow(gateway, store, "Grace Church")

	flow.SetAmount("1000")
	require.NoError(t, flow.SetPurpose(models.PurposeBuilding))
	flow.SetDonor("Ravi Kumar", "ravi@example.com")
	flow.SetAnonymous(true)

	assert.Equal(t, AnonymousDonor{}, flow.Donor())

	attempt, err := flow.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CheckoutPrefill{}, gateway.opened[0].Prefill)

	require.NoError(t, attempt.Succeed(PaymentConfirmation{Payment_ID: "pay_anon"}))
	result, err := flow.Await(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Donation.Anonymous)

	fields := storedDonations(t, store)[0].Fields
	assert.Equal(t, "Anonymous", fields["donorName"])
	assert.Equal(t, "", fields["email"])
	assert.Equal(t, true, fields["anonymous"])
}

func TestDonationFlowEmptyNameDefaultsToAnonymous(t *testing.T) {
	gateway := &fakeGateway{}
	store := NewMemoryDocumentStore()
	flow := NewDonationFlow(gateway, store, "Grace Church")

	flow.SetAmount("250")
	flow.SetDonor("   ", "giver@example.com")

	attempt, err := flow.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "giver@example.com", gateway.opened[0].Prefill.Email)

	require.NoError(t, attempt.Succeed(PaymentConfirmation{Payment_ID: "pay_noname"}))
	_, err = flow.Await(context.Background())
	require.NoError(t, err)

	fields := storedDonations(t, store)[0].Fields
	assert.Equal(t, "Anonymous", fields["donorName"])
	assert.Equal(t, "giver@example.com", fields["email"])
	assert.Equal(t, false, fields["anonymous"])
}

func TestDonationFlowGatewayAmountIsRoundedMinorUnits(t *testing.T) {
	tests := []struct {
		amount   string
		expected int64
	}{
		{"1", 100},
		{"1.5", 150},
		{"99.99", 9999},
		{"1234.56", 123456},
		{"5000", 500000},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			gateway := &fakeGateway{}
			flow := NewDonationFlow(gateway, NewMemoryDocumentStore(), "Grace Church")
			flow.SetAmount(tt.amount)

			_, err := flow.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, gateway.opened[0].Amount)
			assert.Equal(t, models.DonationCurrency, gateway.opened[0].Currency)
		})
	}
}

func TestDonationFlowDismissWritesNothing(t *testing.T) {
	gateway := &fakeGateway{}
	store := NewMemoryDocumentStore()
	flow := NewDonationFlow(gateway, store, "Grace Church")
	flow.SetAmount("500")

	attempt, err := flow.Submit(context.Background())
	require.NoError(t, err)
	require.NoError(t, attempt.Dismiss())

	_, err = flow.Await(context.Background())
	assert.ErrorIs(t, err, ErrGatewayCancelled)
	assert.Equal(t, StateEditing, flow.State())
	assert.Contains(t, flow.History(), StateGatewayCancelled)
	assert.Nil(t, flow.Attempt())
	assert.Empty(t, storedDonations(t, store))

	assert.ErrorIs(t, attempt.Succeed(PaymentConfirmation{Payment_ID: "late"}), ErrAttemptResolved)

	// the form can be submitted again
	_, err = flow.Submit(context.Background())
	assert.NoError(t, err)
}

func TestDonationFlowGatewayLoadFailure(t *testing.T) {
	gateway := &fakeGateway{loadErr: errors.New("dns failure")}
	store := NewMemoryDocumentStore()
	flow := NewDonationFlow(gateway, store, "Grace Church")
	flow.SetAmount("500")

	attempt, err := flow.Submit(context.Background())

	assert.Nil(t, attempt)
	var gatewayErr *GatewayError
	require.True(t, errors.As(err, &gatewayErr))
	assert.Equal(t, "Failed to load payment gateway. Please try again.", err.Error())
	assert.Equal(t, StateGatewayLoadFailed, flow.State())
	assert.Empty(t, gateway.opened)
	assert.Empty(t, storedDonations(t, store))

	flow.SetAmount("600")
	assert.Equal(t, StateEditing, flow.State())
}

func TestDonationFlowWithoutGateway(t *testing.T) {
	flow := NewDonationFlow(nil, NewMemoryDocumentStore(), "Grace Church")
	flow.SetAmount("500")

	_, err := flow.Submit(context.Background())

	var gatewayErr *GatewayError
	require.True(t, errors.As(err, &gatewayErr))
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}

func TestDonationFlowPersistFailure(t *testing.T) {
	gateway := &fakeGateway{}
	flow := NewDonationFlow(gateway, &failingStore{}, "Grace Church")
	flow.SetAmount("500")

	attempt, err := flow.Submit(context.Background())
	require.NoError(t, err)
	require.NoError(t, attempt.Succeed(PaymentConfirmation{Payment_ID: "pay_lost"}))

	_, err = flow.Await(context.Background())

	var persistenceErr *PersistenceError
	require.True(t, errors.As(err, &persistenceErr))
	assert.Equal(t, "pay_lost", persistenceErr.Payment_ID)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, StatePersistFailed, flow.State())

	validationMessage := (&ValidationError{Message: "Please enter a valid amount"}).Error()
	gatewayMessage := (&GatewayError{}).Error()
	assert.NotEqual(t, validationMessage, err.Error())
	assert.NotEqual(t, gatewayMessage, err.Error())
	assert.Contains(t, err.Error(), "contact us")
}

func TestDonationFlowRejectsConcurrentSubmit(t *testing.T) {
	gateway := &fakeGateway{}
	flow := NewDonationFlow(gateway, NewMemoryDocumentStore(), "Grace Church")
	flow.SetAmount("500")

	_, err := flow.Submit(context.Background())
	require.NoError(t, err)

	_, err = flow.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	assert.Len(t, gateway.opened, 1)
}

func TestDonationFlowAwaitSuspendsUntilResolved(t *testing.T) {
	gateway := &fakeGateway{}
	store := NewMemoryDocumentStore()
	flow := NewDonationFlow(gateway, store, "Grace Church")
	flow.SetAmount("2000")
	require.NoError(t, flow.SetPurpose(models.PurposeCharity))

	attempt, err := flow.Submit(context.Background())
	require.NoError(t, err)

	type awaited struct {
		result DonationResult
		err    error
	}
	done := make(chan awaited, 1)
	go func() {
		result, err := flow.Await(context.Background())
		done <- awaited{result, err}
	}()

	select {
	case <-done:
		t.Fatal("Await returned before the gateway resolved")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, StateAwaitingGateway, flow.State())

	require.NoError(t, attempt.Succeed(PaymentConfirmation{Payment_ID: "pay_async"}))

	select {
	case got := <-done:
		require.NoError(t, got.err)
		assert.Equal(t, models.PurposeCharity, got.result.Confirmation.Purpose)
		assert.Equal(t, "Charity / Outreach", got.result.Confirmation.Purpose_Label)
	case <-time.After(time.Second):
		t.Fatal("Await did not return after success")
	}

	assert.Equal(t, 1, store.Count(CollectionDonations))
}

func TestDonationFlowAwaitHonoursContext(t *testing.T) {
	flow := NewDonationFlow(&fakeGateway{}, NewMemoryDocumentStore(), "Grace Church")
	flow.SetAmount("500")

	attempt, err := flow.Submit(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = flow.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateAwaitingGateway, flow.State())
	assert.False(t, attempt.Resolved())
}

func TestDonationFlowRecordsPaymentWhenCallerAlreadyGone(t *testing.T) {
	for i := 0; i < 100; i++ {
		store := NewMemoryDocumentStore()
		flow := NewDonationFlow(&fakeGateway{}, store, "Grace Church")
		flow.SetAmount("500")

		attempt, err := flow.Submit(context.Background())
		require.NoError(t, err)
		require.NoError(t, attempt.Succeed(PaymentConfirmation{Payment_ID: "pay_1"}))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := flow.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, "pay_1", result.Donation.Payment_ID)
		assert.Equal(t, StateCompleted, flow.State())
		assert.Equal(t, 1, store.Count(CollectionDonations))
	}
}

func TestDonationFlowAwaitWithoutAttempt(t *testing.T) {
	flow := NewDonationFlow(&fakeGateway{}, NewMemoryDocumentStore(), "Grace Church")
	_, err := flow.Await(context.Background())
	assert.ErrorIs(t, err, ErrNoPendingCheckout)
}

func TestDonationFlowSetters(t *testing.T) {
	flow := NewDonationFlow(&fakeGateway{}, NewMemoryDocumentStore(), "Grace Church")

	var validationErr *ValidationError
	assert.True(t, errors.As(flow.SetPurpose("missions"), &validationErr))
	assert.True(t, errors.As(flow.SelectPreset(750), &validationErr))
	assert.NoError(t, flow.SelectPreset(2000))

	flow.SetDonor(" Asha ", " asha@example.com ")
	assert.Equal(t, NamedDonor{Name: "Asha", Email: "asha@example.com"}, flow.Donor())
}

func TestParseDonationAmount(t *testing.T) {
	amount, err := ParseDonationAmount(" 1 ")
	assert.NoError(t, err)
	assert.Equal(t, 1.0, amount)

	amount, err = ParseDonationAmount("1000000")
	assert.NoError(t, err, "there is no upper bound")
	assert.Equal(t, 1000000.0, amount)

	_, err = ParseDonationAmount("0.5")
	assert.Error(t, err)
}
