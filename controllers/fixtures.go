package controllers

import (
	"testing"

	"github.com/ChurchWeb/models"
	"golang.org/x/crypto/bcrypt"
)

// Test fixture data for use in tests

// MockDonationCheckout creates the pledge from the giving page walkthrough
func MockDonationCheckout() models.DonationCheckout {
	return models.DonationCheckout{
		Amount:     "500",
		Purpose:    string(models.PurposeTithes),
		Donor_Name: "Asha",
		Anonymous:  false,
	}
}

// MockPrayerRequest creates a complete prayer request form
func MockPrayerRequest() models.PrayerRequestCreate {
	return models.PrayerRequestCreate{
		Name:    "Mary",
		Email:   "mary@example.com",
		Request: "Please pray for my mother's recovery.",
	}
}

// MockEvent creates a sample event for publishing
func MockEvent() models.EventCreate {
	return models.EventCreate{
		Title:    "Easter Sunday Service",
		Date:     "2026-04-05",
		Time:     "9:00 AM",
		Location: "Main Sanctuary",
		Category: "Worship",
	}
}

// MockBlogPost creates a sample published blog post
func MockBlogPost() models.BlogPostCreate {
	return models.BlogPostCreate{
		Title:   "Welcome to our new website",
		Slug:    "welcome",
		Content: "We are excited to share news and reflections from our church family.",
		Status:  models.BlogStatusPublished,
	}
}

// SetupAdminCredentials configures the admin login. Password is "admin123"
// - use this in tests
func SetupAdminCredentials(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	t.Setenv("ADMIN_USERNAME", "pastor")
	t.Setenv("ADMIN_PASSWORD_HASH", string(hashedPassword))
	t.Setenv("SECRET", "test-secret-key")
}
