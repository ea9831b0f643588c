package controllers

import (
	"crypto/subtle"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/ChurchWeb/models"
	"github.com/ChurchWeb/services"
)

// AdminLogin checks the single site administrator configured through
// ADMIN_USERNAME and ADMIN_PASSWORD_HASH (bcrypt) and issues a 24h token.
func AdminLogin(c *gin.Context) {
	var login models.AdminLogin
	if err := c.ShouldBindJSON(&login); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := os.Getenv("ADMIN_USERNAME")
	passwordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if username == "" || passwordHash == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin login is not configured"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(login.Username), []byte(username)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(login.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	generateToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
		"role": "admin",
	})

	token, err := generateToken.SignedString([]byte(os.Getenv("SECRET")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin login successful.", "token": token})
}

type staffDeviceSubscription struct {
	Token string `json:"token" binding:"required"`
	Topic string `json:"topic" binding:"required"`
}

// SubscribeStaffDevice registers a staff phone for prayer-team or
// finance-team pushes.
func SubscribeStaffDevice(c *gin.Context) {
	updateStaffDevice(c, func(push *services.PushNotificationService, sub staffDeviceSubscription) error {
		return push.SubscribeToTopic([]string{sub.Token}, sub.Topic)
	})
}

func UnsubscribeStaffDevice(c *gin.Context) {
	updateStaffDevice(c, func(push *services.PushNotificationService, sub staffDeviceSubscription) error {
		return push.UnsubscribeFromTopic([]string{sub.Token}, sub.Topic)
	})
}

func updateStaffDevice(c *gin.Context, apply func(*services.PushNotificationService, staffDeviceSubscription) error) {
	var sub staffDeviceSubscription
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !slices.Contains(services.StaffTopics, sub.Topic) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown topic", "topics": services.StaffTopics})
		return
	}

	push := services.GetPushNotificationService()
	if push == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Push notifications are not configured"})
		return
	}

	if err := apply(push, sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription updated successfully.", "topic": sub.Topic})
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
