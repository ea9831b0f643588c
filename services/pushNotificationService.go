package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"firebase.google.com/go/v4/messaging"

	"github.com/ChurchWeb/initializers"
)

const (
	TopicPrayerTeam  = "prayer-team"
	TopicFinanceTeam = "finance-team"
)

var StaffTopics = []string{TopicPrayerTeam, TopicFinanceTeam}

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
}

type PushNotificationService struct {
	fcmClient messagingClient
}

type NotificationPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

var pushService *PushNotificationService

// InitPushNotificationService builds the FCM client from the shared
// Firebase app. Staff devices subscribe to topics; visitors never receive
// pushes.
func InitPushNotificationService() {
	if initializers.FirebaseApp == nil {
		log.Println("WARNING: Firebase not initialized. Push notifications will not be available.")
		return
	}

	client, err := initializers.FirebaseApp.Messaging(context.Background())
	if err != nil {
		log.Printf("Failed to get Firebase messaging client: %v", err)
		return
	}

	pushService = NewPushNotificationService(client)
	log.Println("Push notification service initialized successfully with FCM")
}

func NewPushNotificationService(client messagingClient) *PushNotificationService {
	return &PushNotificationService{fcmClient: client}
}

func GetPushNotificationService() *PushNotificationService {
	return pushService
}

func SetPushNotificationService(service *PushNotificationService) *PushNotificationService {
	previous := pushService
	pushService = service
	return previous
}

// SendToTopic sends a notification to all devices subscribed to a topic
func (s *PushNotificationService) SendToTopic(topic string, payload NotificationPayload) error {
	if s.fcmClient == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: payload.Data,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	response, err := s.fcmClient.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM topic message: %v", err)
	}

	log.Printf("Successfully sent FCM topic notification to %s. Message ID: %s", topic, response)
	return nil
}

// SubscribeToTopic subscribes tokens to a topic
func (s *PushNotificationService) SubscribeToTopic(tokens []string, topic string) error {
	if s.fcmClient == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	response, err := s.fcmClient.SubscribeToTopic(ctx, tokens, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %v", topic, err)
	}

	log.Printf("Successfully subscribed %d tokens to topic %s. Errors: %d",
		len(tokens)-response.FailureCount, topic, response.FailureCount)

	return nil
}

// UnsubscribeFromTopic unsubscribes tokens from a topic
func (s *PushNotificationService) UnsubscribeFromTopic(tokens []string, topic string) error {
	if s.fcmClient == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	response, err := s.fcmClient.UnsubscribeFromTopic(ctx, tokens, topic)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe from topic %s: %v", topic, err)
	}

	log.Printf("Successfully unsubscribed %d tokens from topic %s. Errors: %d",
		len(tokens)-response.FailureCount, topic, response.FailureCount)

	return nil
}
