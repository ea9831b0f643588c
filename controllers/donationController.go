package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ChurchWeb/models"
	"github.com/ChurchWeb/services"
)

func GetDonationOptions(c *gin.Context) {
	purposes := make([]gin.H, 0, len(models.DonationPurposes))
	for _, purpose := range models.DonationPurposes {
		purposes = append(purposes, gin.H{"value": purpose, "label": purpose.Label()})
	}

	key := ""
	if razorpay, ok := services.GetCheckoutGateway().(*services.RazorpayGateway); ok {
		key = razorpay.KeyID()
	}

	c.JSON(http.StatusOK, gin.H{
		"presetAmounts":  models.DonationPresetAmounts,
		"purposes":       purposes,
		"defaultPurpose": models.PurposeTithes,
		"currency":       models.DonationCurrency,
		"key":            key,
	})
}

// CreateDonationCheckout validates a pledge and opens a checkout attempt.
// The page hands the returned options to the hosted widget and reports back
// through the success or dismiss endpoint.
func CreateDonationCheckout(c *gin.Context) {
	var checkout models.DonationCheckout
	if err := c.ShouldBindJSON(&checkout); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid amount", "kind": "validation", "details": err.Error()})
		return
	}

	flow := services.NewDonationFlow(services.GetCheckoutGateway(), services.GetDocumentStore(), services.ChurchName())

	flow.SetAmount(string(checkout.Amount))
	if checkout.Purpose != "" {
		if err := flow.SetPurpose(models.DonationPurpose(checkout.Purpose)); err != nil {
			respondWithFlowError(c, err)
			return
		}
	}
	flow.SetAnonymous(checkout.Anonymous)
	flow.SetDonor(checkout.Donor_Name, checkout.Email)

	attempt, err := flow.Submit(c.Request.Context())
	if err != nil {
		respondWithFlowError(c, err)
		return
	}

	services.GetCheckoutRegistry().Register(attempt.ID, flow)

	c.JSON(http.StatusOK, gin.H{
		"attemptId": attempt.ID,
		"state":     flow.State(),
		"checkout":  attempt.Options,
	})
}

// CompleteDonationCheckout receives the widget's success callback and
// records the donation.
func CompleteDonationCheckout(c *gin.Context) {
	attemptID := c.Param("attempt_id")

	flow, found := services.GetCheckoutRegistry().Lookup(attemptID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checkout not found", "kind": "not_found"})
		return
	}

	var payment models.DonationPaymentSuccess
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment confirmation is required", "kind": "validation", "details": err.Error()})
		return
	}

	confirmation := services.PaymentConfirmation{
		Payment_ID: payment.Payment_ID,
		Order_ID:   payment.Order_ID,
		Signature:  payment.Signature,
	}

	attempt := flow.Attempt()
	if attempt == nil || attempt.ID != attemptID {
		respondWithFlowError(c, services.ErrAttemptResolved)
		return
	}

	if err := flow.VerifyPayment(confirmation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment could not be verified", "kind": "invalid_signature"})
		return
	}

	if err := attempt.Succeed(confirmation); err != nil {
		respondWithFlowError(c, err)
		return
	}
	services.GetCheckoutRegistry().Remove(attemptID)

	// the payment has moved; the record must be written even if the page has gone
	result, err := flow.Await(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		respondWithFlowError(c, err)
		return
	}

	go services.NotifyDonationCompleted(result.Donation)

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Your donation has been received successfully.",
		"confirmation": result.Confirmation,
		"redirect":     confirmationPath(result.Confirmation),
	})
}

// DismissDonationCheckout receives the widget's dismiss callback. Nothing
// is recorded.
func DismissDonationCheckout(c *gin.Context) {
	attemptID := c.Param("attempt_id")

	flow, found := services.GetCheckoutRegistry().Lookup(attemptID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checkout not found", "kind": "not_found"})
		return
	}

	attempt := flow.Attempt()
	if attempt == nil || attempt.ID != attemptID {
		respondWithFlowError(c, services.ErrAttemptResolved)
		return
	}

	if err := attempt.Dismiss(); err != nil {
		respondWithFlowError(c, err)
		return
	}
	services.GetCheckoutRegistry().Remove(attemptID)

	_, err := flow.Await(c.Request.Context())
	if err != nil && !errors.Is(err, services.ErrGatewayCancelled) {
		respondWithFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment cancelled", "kind": "gateway_cancelled", "state": flow.State()})
}

// GetDonationConfirmation echoes the display parameters of the thank-you
// page. It does not look up any stored record.
func GetDonationConfirmation(c *gin.Context) {
	amount, err := services.ParseDonationAmount(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount", "kind": "validation"})
		return
	}

	purpose := models.DonationPurpose(c.Query("purpose"))

	c.JSON(http.StatusOK, models.DonationConfirmation{
		Amount:        amount,
		Purpose:       purpose,
		Purpose_Label: purpose.Label(),
	})
}

func confirmationPath(confirmation models.DonationConfirmation) string {
	query := url.Values{}
	query.Set("amount", strconv.FormatFloat(confirmation.Amount, 'f', -1, 64))
	query.Set("purpose", string(confirmation.Purpose))
	return "/give/success?" + query.Encode()
}
