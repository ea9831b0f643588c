package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChurchWeb/models"
	"github.com/ChurchWeb/services"
)

// CreatePrayerRequest serves both the prayer request page and the contact
// page. On failure the submitted form is echoed back for a retry.
func CreatePrayerRequest(c *gin.Context) {
	var form models.PrayerRequestCreate
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	flow := services.NewPrayerRequestFlow(services.GetDocumentStore())

	request, err := flow.Submit(c.Request.Context(), form)
	var submissionErr *services.SubmissionError
	if errors.As(err, &submissionErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": submissionErr.Error(), "kind": "submission", "form": flow.Form()})
		return
	}
	if err != nil {
		respondWithFlowError(c, err)
		return
	}

	go services.NotifyPrayerRequestSubmitted(request)

	c.JSON(http.StatusCreated, gin.H{
		"message":             "Prayer request submitted successfully.",
		"prayerRequestId":     request.Prayer_Request_ID,
		"form":                flow.Form(),
		"confirmationSeconds": int(services.PrayerConfirmationWindow.Seconds()),
	})
}
