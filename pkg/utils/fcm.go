package utils

import (
	"context"
	"log"
	"os"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

var fcmClient *messaging.Client

// InitFCM wires up Firebase Cloud Messaging. Without FIREBASE_CREDENTIALS the
// client stays nil and SendPush becomes a no-op, so local runs and tests work
// without a service account.
func InitFCM() {
	credPath := os.Getenv("FIREBASE_CREDENTIALS")
	if credPath == "" {
		log.Println("FIREBASE_CREDENTIALS not set, push notifications disabled")
		return
	}

	opt := option.WithCredentialsFile(credPath)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Printf("Error initializing firebase app: %v", err)
		return
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("Error getting messaging client: %v", err)
		return
	}

	fcmClient = client
	log.Println("Firebase Cloud Messaging ready")
}

// SendPush delivers a message to a single device token.
func SendPush(token, title, body string, data map[string]string) error {
	if fcmClient == nil || token == "" {
		return nil
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := fcmClient.Send(context.Background(), message); err != nil {
		log.Printf("Error sending push: %s", err)
		return err
	}
	return nil
}
