package controllers

import (
	"net/http"

	"github.com/ChurchWeb/models"
	"github.com/ChurchWeb/services"
	"github.com/gin-gonic/gin"
)

// TestEmailService sends a sample donation receipt
// This is for checking the Resend setup only
func TestEmailService(c *gin.Context) {
	type TestEmailRequest struct {
		Email     string `json:"email" binding:"required,email"`
		DonorName string `json:"donorName"`
	}

	var req TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required", "details": err.Error()})
		return
	}

	// Use default donor name if not provided
	if req.DonorName == "" {
		req.DonorName = "Test Donor"
	}

	emailService := services.GetEmailService()
	if emailService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Email service is not initialized. Check RESEND_API_KEY in .env",
		})
		return
	}

	sample := models.Donation{
		Amount:     500,
		Purpose:    models.PurposeOffering,
		Donor_Name: req.DonorName,
		Email:      req.Email,
		Payment_ID: "pay_test",
	}
	if err := emailService.SendDonationReceipt(sample); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send test email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Test email sent successfully!",
		"email":     req.Email,
		"donorName": req.DonorName,
		"note":      "Check your inbox for a sample donation receipt",
	})
}
