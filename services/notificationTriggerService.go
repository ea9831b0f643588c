package services

import (
	"fmt"
	"log"
	"os"

	"github.com/ChurchWeb/models"
)

// NotifyDonationCompleted emails a receipt to named donors who left an
// address and tells the finance team. Failures are logged only; the
// donation is already recorded.
func NotifyDonationCompleted(donation models.Donation) {
	if email := GetEmailService(); email != nil && !donation.Anonymous && donation.Email != "" {
		if err := email.SendDonationReceipt(donation); err != nil {
			log.Printf("Error sending donation receipt for payment %s: %v", donation.Payment_ID, err)
		}
	}

	if push := GetPushNotificationService(); push != nil {
		payload := NotificationPayload{
			Title: "New donation received",
			Body:  fmt.Sprintf("%s for %s from %s", formatRupees(donation.Amount), donation.Purpose.Label(), donation.Donor_Name),
			Data: map[string]string{
				"type":      "DONATION_COMPLETED",
				"paymentId": donation.Payment_ID,
				"purpose":   string(donation.Purpose),
			},
		}
		if err := push.SendToTopic(TopicFinanceTeam, payload); err != nil {
			log.Printf("Error notifying finance team of payment %s: %v", donation.Payment_ID, err)
		}
	}
}

// NotifyPrayerRequestSubmitted forwards a new prayer request to the prayer
// team inbox (PRAYER_TEAM_EMAIL) and their devices.
func NotifyPrayerRequestSubmitted(request models.PrayerRequest) {
	if email := GetEmailService(); email != nil {
		if to := os.Getenv("PRAYER_TEAM_EMAIL"); to != "" {
			if err := email.SendPrayerRequestNotice(to, request); err != nil {
				log.Printf("Error forwarding prayer request %s: %v", request.Prayer_Request_ID, err)
			}
		}
	}

	if push := GetPushNotificationService(); push != nil {
		payload := NotificationPayload{
			Title: "New prayer request",
			Body:  fmt.Sprintf("%s has shared a prayer request", request.Name),
			Data: map[string]string{
				"type":            "PRAYER_REQUEST_SUBMITTED",
				"prayerRequestId": request.Prayer_Request_ID,
			},
		}
		if err := push.SendToTopic(TopicPrayerTeam, payload); err != nil {
			log.Printf("Error notifying prayer team of request %s: %v", request.Prayer_Request_ID, err)
		}
	}
}
