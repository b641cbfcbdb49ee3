package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/teslys/teslys-backend/internal/models"
)

const (
	topicPrefix    = "teslys/notifications/"
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Publisher delivers push notifications over the MQTT gateway. Each user has
// a dedicated topic; the delivery service fans out from there to registered
// device tokens.
type Publisher struct {
	client mqtt.Client
}

// NewPublisher connects to the push gateway broker. The broker URL comes
// from MQTT_BROKER_URL when not given.
func NewPublisher(brokerURL, clientID string) (*Publisher, error) {
	if brokerURL == "" {
		brokerURL = os.Getenv("MQTT_BROKER_URL")
	}
	if brokerURL == "" {
		brokerURL = "tcp://localhost:1883"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect timeout to %s", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	log.WithField("broker", brokerURL).Info("Connected to push gateway")
	return &Publisher{client: client}, nil
}

// UserTopic returns the per-user notification topic.
func UserTopic(userID string) string {
	return topicPrefix + userID
}

// Notify publishes one notification to the user's topic.
func (p *Publisher) Notify(ctx context.Context, n models.Notification) error {
	if n.UserID == "" {
		return fmt.Errorf("notification user_id is required")
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	token := p.client.Publish(UserTopic(n.UserID), 1, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt publish timeout for user %s", n.UserID)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
