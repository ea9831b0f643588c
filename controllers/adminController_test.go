package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChurchWeb/models"
	"github.com/ChurchWeb/services"
)

func TestAdminLogin(t *testing.T) {
	tests := []struct {
		name           string
		login          models.AdminLogin
		expectedStatus int
		expectToken    bool
	}{
		{
			name:           "successful login",
			login:          models.AdminLogin{Username: "pastor", Password: "admin123"},
			expectedStatus: http.StatusOK,
			expectToken:    true,
		},
		{
			name:           "wrong password",
			login:          models.AdminLogin{Username: "pastor", Password: "wrong"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong username",
			login:          models.AdminLogin{Username: "deacon", Password: "admin123"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			login:          models.AdminLogin{Username: "pastor"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetupAdminCredentials(t)

			c, w := SetupTestContext()
			SetJSONBody(c, "/admin/login", tt.login)

			AdminLogin(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if !tt.expectToken {
				assert.NotContains(t, response, "token")
				return
			}

			token, err := jwt.Parse(response["token"].(string), func(token *jwt.Token) (interface{}, error) {
				return []byte("test-secret-key"), nil
			})
			require.NoError(t, err)
			claims := token.Claims.(jwt.MapClaims)
			assert.Equal(t, "pastor", claims["sub"])
			assert.Equal(t, "admin", claims["role"])
		})
	}
}

func TestAdminLoginNotConfigured(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	c, w := SetupTestContext()
	SetJSONBody(c, "/admin/login", models.AdminLogin{Username: "pastor", Password: "admin123"})

	AdminLogin(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubscribeStaffDevice(t *testing.T) {
	previous := services.SetPushNotificationService(nil)
	defer services.SetPushNotificationService(previous)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"unknown topic", gin.H{"token": "device-1", "topic": "everyone"}, http.StatusBadRequest},
		{"missing token", gin.H{"topic": services.TopicPrayerTeam}, http.StatusBadRequest},
		{"push not configured", gin.H{"token": "device-1", "topic": services.TopicFinanceTeam}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := SetupTestContext()
			SetJSONBody(c, "/admin/push-subscriptions", tt.body)
			SetAuthenticatedAdmin(c, "pastor")

			SubscribeStaffDevice(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestTestEmailServiceNotConfigured(t *testing.T) {
	previous := services.SetEmailService(nil)
	defer services.SetEmailService(previous)

	c, w := SetupTestContext()
	SetJSONBody(c, "/admin/test-email", gin.H{"email": "pastor@church.org"})

	TestEmailService(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPing(t *testing.T) {
	c, w := SetupTestContext()

	Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}
