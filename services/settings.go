package services

import "os"

const defaultChurchName = "Memorial Church Whitefield"

// ChurchName is the display name shown in the checkout widget and emails.
func ChurchName() string {
	if name := os.Getenv("CHURCH_NAME"); name != "" {
		return name
	}
	return defaultChurchName
}
