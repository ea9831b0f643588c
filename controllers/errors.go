package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChurchWeb/services"
)

// respondWithFlowError maps a submission flow error to a blocking message
// the page can show as is.
func respondWithFlowError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var gatewayErr *services.GatewayError
	var persistenceErr *services.PersistenceError
	var submissionErr *services.SubmissionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "kind": "validation", "field": validationErr.Field})
	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": gatewayErr.Error(), "kind": "gateway_unavailable"})
	case errors.As(err, &persistenceErr):
		log.Printf("Donation record missing for payment %s: %v", persistenceErr.Payment_ID, persistenceErr.Err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     persistenceErr.Error(),
			"kind":      "persistence",
			"paymentId": persistenceErr.Payment_ID,
		})
	case errors.As(err, &submissionErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": submissionErr.Error(), "kind": "submission"})
	case errors.Is(err, services.ErrGatewayCancelled):
		c.JSON(http.StatusOK, gin.H{"message": "Payment cancelled", "kind": "gateway_cancelled"})
	case errors.Is(err, services.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "in_progress"})
	case errors.Is(err, services.ErrAttemptResolved), errors.Is(err, services.ErrNoPendingCheckout):
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrAttemptResolved.Error(), "kind": "already_resolved"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
	default:
		log.Printf("Unexpected submission error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
